package entity

// ElementRef identifies one DOM node for reporting. It is only valid for the
// audit pass that produced it.
type ElementRef struct {
	Tag      string `json:"tag" yaml:"tag"`
	Selector string `json:"selector" yaml:"selector"`
}

// ComputedStyle holds the two computed colour properties the contrast check reads.
type ComputedStyle struct {
	Color           string
	BackgroundColor string
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
