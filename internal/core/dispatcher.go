package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"tunebridge/internal/i18n"
	"tunebridge/pkg/musiclink"
	"tunebridge/pkg/text"
)

// startCommand is the only bot command the dispatcher answers.
const startCommand = "start"

// LinkResolver is the resolution surface the dispatcher depends on.
type LinkResolver interface {
	// Resolve turns a music service link into an item plus per-service links.
	Resolve(ctx context.Context, link string) (*musiclink.Result, error)
	// Search resolves free-text queries through the search-capable adapter.
	Search(ctx context.Context, query string) ([]musiclink.Result, error)
}

// Recorder receives dispatcher telemetry. Satisfied by the HTTP server's
// metrics.
type Recorder interface {
	RecordUpdate(kind, status string)
	RecordResolution(kind, outcome string)
	RecordResolveTime(kind string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordUpdate(string, string)             {}
func (nopRecorder) RecordResolution(string, string)         {}
func (nopRecorder) RecordResolveTime(string, time.Duration) {}

// Dispatcher maps inbound chat events onto the resolver and packages the
// outcome for the transport. It holds no per-request state and performs no
// network I/O of its own.
type Dispatcher struct {
	resolver  LinkResolver
	logger    *zap.Logger
	localizer *i18n.Localizer
	recorder  Recorder
}

// NewDispatcher creates a dispatcher over the given resolver. A nil recorder
// disables telemetry.
func NewDispatcher(resolver LinkResolver, language string, logger *zap.Logger, recorder Recorder) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Dispatcher{
		resolver:  resolver,
		logger:    logger,
		localizer: i18n.NewLocalizer(language),
		recorder:  recorder,
	}
}

// Dispatch handles one inbound update. A nil response means the transport
// should send nothing. Resolution failures never surface to the end user;
// they only shrink or empty the result list.
func (d *Dispatcher) Dispatch(ctx context.Context, update *Update) *Response {
	switch {
	case update.Query != nil:
		return d.handleQuery(ctx, update.Query)
	case update.Message != nil:
		return d.handleMessage(update.Message)
	default:
		return nil
	}
}

// handleQuery answers an inline query. A query carrying a recognized link
// yields exactly one result; anything else falls through to free-text search
// over the whole query.
func (d *Dispatcher) handleQuery(ctx context.Context, query *QueryEvent) *Response {
	queryText := text.Normalize(query.Text)
	started := time.Now()

	if link := text.FirstURL(queryText); link != "" {
		if resolved, err := d.resolver.Resolve(ctx, link); err == nil {
			d.recorder.RecordResolution("link", "resolved")
			d.recorder.RecordResolveTime("link", time.Since(started))
			d.recorder.RecordUpdate("query", "resolved")
			return &Response{Query: &QueryResponse{
				ID:      query.ID,
				Results: []PresentableResult{BuildResult(resolved)},
			}}
		} else if errors.Is(err, musiclink.ErrUnsupportedLink) {
			d.recorder.RecordResolution("link", "unsupported")
		} else {
			// Recognized link, unreadable metadata. The user just gets search
			// results; the failure itself is telemetry.
			d.recorder.RecordResolution("link", "error")
			d.logger.Warn("link extraction failed", zap.String("link", link), zap.Error(err))
		}
	}

	hits, err := d.resolver.Search(ctx, queryText)
	if err != nil {
		d.recorder.RecordResolution("search", "error")
		d.logger.Warn("search failed", zap.String("query", queryText), zap.Error(err))
	} else {
		d.recorder.RecordResolution("search", "ok")
	}
	d.recorder.RecordResolveTime("search", time.Since(started))

	results := make([]PresentableResult, 0, len(hits))
	for i := range hits {
		results = append(results, BuildResult(&hits[i]))
	}

	status := "searched"
	if len(results) == 0 {
		status = "empty"
	}
	d.recorder.RecordUpdate("query", status)

	return &Response{Query: &QueryResponse{ID: query.ID, Results: results}}
}

// handleMessage answers a recognized command and stays silent otherwise.
func (d *Dispatcher) handleMessage(message *MessageEvent) *Response {
	for _, command := range message.Commands {
		if strings.EqualFold(command.Name, startCommand) {
			d.recorder.RecordUpdate("command", "replied")
			return &Response{Message: &MessageResponse{
				ChatID: message.ChatID,
				Text:   d.localizer.T("help.start"),
			}}
		}
		// Only the first command in a message is considered.
		break
	}
	return nil
}
