package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Command replies
	"help.start": "Hello! I'm designed to be used in inline mode. Type my name " +
		"followed by the link to a song on your favorite music service! " +
		"I work in all chats.",

	// Inline result hints
	"result.no_links": "No other services found this one.",
}
