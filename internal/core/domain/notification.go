package domain

// ReloadKind is the kind of change pushed to a connected client.
type ReloadKind string

const (
	// ReloadCSS asks the client to swap stylesheets in place.
	ReloadCSS ReloadKind = "css"
	// ReloadFull asks the client to reload the page.
	ReloadFull ReloadKind = "full"
)

// Notification is the payload shape the reload transport must honor.
type Notification struct {
	Type ReloadKind `json:"type"`
	Path string     `json:"path"`
}
