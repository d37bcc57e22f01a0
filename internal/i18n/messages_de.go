package i18n

// germanMessages contains all German translations.
var germanMessages = map[string]string{
	// Command replies
	"help.start": "Hallo! Ich bin für den Inline-Modus gedacht. Tippe meinen Namen " +
		"gefolgt vom Link zu einem Song auf deinem liebsten Musikdienst! " +
		"Ich funktioniere in allen Chats.",

	// Inline result hints
	"result.no_links": "Kein anderer Dienst hat diesen Titel gefunden.",
}
