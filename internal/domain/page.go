package domain

type Page string

const (
	PageAuth    Page = "auth"
	PageHome    Page = "home"
	PageProfile Page = "profile"
	PageGroup   Page = "group"
)

func ParsePage(s string) (Page, bool) {
	switch p := Page(s); p {
	case PageAuth, PageHome, PageProfile, PageGroup:
		return p, true
	}
	return "", false
}

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient toast shown once on the next render.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant"`
}
