package pipeline

import (
	"fmt"
	"strings"

	"github.com/applyflow/cv-ocr/internal/domain"
)

// FillPageSlots expands recognized page texts to one entry per original page
// index 1..pageCount. Pages lost to decode or recognition failures occupy
// their slot with empty text so page numbering stays continuous.
func FillPageSlots(pageCount int, recognized []domain.PageText) []domain.PageText {
	byIndex := make(map[int]string, len(recognized))
	for _, p := range recognized {
		byIndex[p.PageNumber] = p.Text
	}

	pages := make([]domain.PageText, pageCount)
	for i := 1; i <= pageCount; i++ {
		pages[i-1] = domain.PageText{PageNumber: i, Text: byIndex[i]}
	}
	return pages
}

// CombineText merges per-page text with the submission metadata into the
// fixed payload layout returned to the caller and forwarded to the consumer.
func CombineText(sub domain.Submission, pages []domain.PageText) string {
	var cv strings.Builder
	for _, page := range pages {
		cv.WriteString(fmt.Sprintf("\n--- Page %d ---\n%s\n", page.PageNumber, page.Text))
	}

	return fmt.Sprintf(
		"Role: %s\nUser message: %s %s\n\nExtracted CV text:\n%s",
		sub.Role, sub.Email, sub.Message, cv.String(),
	)
}
