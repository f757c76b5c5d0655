package interfaces

import statement "owner-portal/internal/statement/domain"

// ExportRenderer adapts the artifact builders to the application service.
type ExportRenderer struct{}

func (ExportRenderer) RenderPDF(stmt *statement.Statement) ([]byte, error) {
	return BuildStatementPDF(stmt)
}

func (ExportRenderer) RenderCSV(stmt *statement.Statement) ([]byte, error) {
	return BuildStatementCSV(stmt)
}

func (ExportRenderer) RenderXLSX(stmt *statement.Statement) ([]byte, error) {
	return BuildStatementXLSX(stmt)
}
