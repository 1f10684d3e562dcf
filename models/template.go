package models

// NotebookTemplate is one .ipynb file under the templates directory,
// addressed by its path relative to that directory without the extension.
type NotebookTemplate struct {
	Name string
	Path string
}

// TemplateParameters is the source of a template's "parameters"-tagged cell:
// the default overrides a run starts from.
type TemplateParameters struct {
	TemplateName string
	CellSource   string
}
