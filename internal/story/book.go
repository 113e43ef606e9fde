package story

// Page is one unit of the finished book: a text chunk plus an optional
// illustration. Created once by a page worker and never mutated after.
type Page struct {
	// PageNumber is 1-based and contiguous within a book.
	PageNumber int

	// Text is the story chunk assigned to this page.
	Text string

	// ImagePath is the illustration on disk, or empty if the image step
	// failed. A failed image never drops the page from the book.
	ImagePath string

	// ImagePrompt is the prompt actually sent to the image backend,
	// recorded even on failure for diagnostics.
	ImagePrompt string
}

// Book is the assembled artifact and the unit of persistence.
// Pages are ordered ascending by page number.
type Book struct {
	Title     string
	Brief     *Brief
	FullStory string
	OutputDir string
	Pages     []Page
}
