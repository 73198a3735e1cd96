package assembly

import (
	"time"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/validate"
	"github.com/mohae/deepcopy"
)

// TimestampLayout is the format of meta.completed_at.
const TimestampLayout = time.RFC3339

// Assemble produces the finalized structured document.
// An already-stamped draft keeps its timestamp, so assembling twice yields the same output.
func Assemble(app *domain.Application, at time.Time) *domain.Application {
	if app == nil {
		app = domain.NewApplication()
	}
	doc := deepcopy.Copy(app).(*domain.Application)
	doc.Normalize()

	if doc.Meta.CompletedAt == nil {
		doc.Meta.CompletedAt = domain.Ptr(at.UTC().Format(TimestampLayout))
	}
	if doc.Applicant.SSNLast4 != nil {
		doc.Applicant.SSNLast4 = domain.Ptr(validate.MaskSSN(*doc.Applicant.SSNLast4))
	}
	return doc
}
