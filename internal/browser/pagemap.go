package browser

// PageMap is the form-relevant structure of a page, used to ask a model for
// locators when the built-in ones miss.
type PageMap struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Elements []Element `json:"elements"`
}

// Element represents an input or button on the page
type Element struct {
	Selector     string `json:"selector"`
	Tag          string `json:"tag"`
	Type         string `json:"type,omitempty"`
	Text         string `json:"text,omitempty"`
	Placeholder  string `json:"placeholder,omitempty"`
	Name         string `json:"name,omitempty"`
	ID           string `json:"id,omitempty"`
	Autocomplete string `json:"autocomplete,omitempty"`
	Label        string `json:"label,omitempty"`
}
