// Package domain holds the report narrative and the document port
package domain

// SectionCount is the fixed number of narrative sections
const SectionCount = 6

// Section is one titled block of narrative text
type Section struct {
	Title string `yaml:"title" validate:"required"`
	Body  string `yaml:"body" validate:"required"`
}

// Narrative is the fixed text of the report
type Narrative struct {
	Header      string    `yaml:"header" validate:"required"`
	Author      string    `yaml:"author" validate:"required"`
	CodeSnippet string    `yaml:"code_snippet"`
	Sections    []Section `yaml:"sections" validate:"len=6,dive"`
}

// DocumentPort is the open/finalized document surface the assembler drives
type DocumentPort interface {
	AddPage() error
	AddSection(title, body string) error
	AddImageIfPresent(path string) (bool, error)
	Finalize(outputPath string) error
}

// Opener starts a fresh document for one run
type Opener interface {
	Open(n Narrative, runID string) DocumentPort
}
