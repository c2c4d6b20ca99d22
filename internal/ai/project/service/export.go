package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/export"
	stepmodels "github.com/Jamolkhon5/sprintkit/internal/ai/project/models"
)

const PDFFailedMessage = "Could not download PDF. Try copying to clipboard instead."

var ErrPDFUnavailable = errors.New("pdf export failed")

// ExportText renders the clipboard summary. Export never validates.
func (pa *ProjectAssistant) ExportText(s *Session) stepmodels.ExportText {
	state := s.Snapshot()
	return stepmodels.ExportText{
		Text: export.Text(state),
		Hint: export.Hint(state.ProjectType),
	}
}

// ExportPDF asks the backend to render the plan. There is no local PDF;
// the text export is the fallback offered to the student.
func (pa *ProjectAssistant) ExportPDF(ctx context.Context, s *Session) (client.PDF, error) {
	pdf, err := pa.backend.ExportPDF(ctx, s.Snapshot())
	if err != nil {
		pa.metrics.RemoteCall("export_pdf", "failed")
		return client.PDF{}, fmt.Errorf("%w: %w", ErrPDFUnavailable, err)
	}
	pa.metrics.RemoteCall("export_pdf", "remote")
	return pdf, nil
}
