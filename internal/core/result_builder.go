package core

import (
	"github.com/google/uuid"

	"tunebridge/pkg/musiclink"
)

// BuildResult turns a resolution result into its presentable form: a fresh
// per-result ID, one button per collected link in collection order, and a
// photo body when the item carries cover art.
func BuildResult(res *musiclink.Result) PresentableResult {
	display := res.Item.Display()

	buttons := make([]Button, 0, len(res.Links))
	for _, link := range res.Links {
		buttons = append(buttons, Button{Label: link.Service, URL: link.URL})
	}

	result := PresentableResult{
		ID:      uuid.NewString(),
		Title:   display,
		Buttons: buttons,
	}

	if art := res.Item.Art(); art != nil {
		result.Photo = &Photo{
			URL:     art.URL,
			Width:   art.Width,
			Height:  art.Height,
			Caption: display,
		}
	} else {
		result.Text = display
	}

	return result
}
