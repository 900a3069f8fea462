package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lunaselene/solace/internal/models"
	"go.uber.org/zap"
)

var ErrAnalysisFailed = errors.New("entry analysis generation failed")

// AnalysisService generates the per-entry AI reflection. The entry is
// already saved before this flow runs; a failed completion leaves it intact
// without an analysis and surfaces as an "analysis failed" state.
type AnalysisService struct {
	journal   *JournalService
	completer Completer
	logger    *zap.Logger
}

func NewAnalysisService(journal *JournalService, completer Completer, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		journal:   journal,
		completer: completer,
		logger:    logger,
	}
}

func (service *AnalysisService) GenerateEntryAnalysis(ctx context.Context, userID uint, localID string) (models.JournalEntry, error) {
	entry, err := service.journal.Entry(userID, localID)
	if err != nil {
		return models.JournalEntry{}, err
	}

	text, err := service.completer.Complete(ctx, buildEntryPrompt(entry))
	if err != nil {
		service.logger.Warn("entry completion failed",
			zap.String("local_id", localID),
			zap.Error(err))
		return entry, ErrAnalysisFailed
	}

	analysis := strings.TrimSpace(text)
	return service.journal.UpdateEntry(ctx, userID, localID, EntryPatch{Analysis: &analysis})
}

func buildEntryPrompt(entry models.JournalEntry) string {
	var builder strings.Builder
	builder.WriteString("You are a warm, grounded journaling coach. ")
	builder.WriteString("Offer a short, supportive psychological reflection (one or two paragraphs) on today's journal entry. ")
	builder.WriteString("Do not diagnose; speak directly to the writer.\n\n")
	fmt.Fprintf(&builder, "Emotion: %s. Mood score (1-99): %d.\n", entry.Emotion, entry.FeelScore)
	if strings.TrimSpace(entry.Theme) != "" {
		fmt.Fprintf(&builder, "Theme: %s\n", entry.Theme)
	}
	if strings.TrimSpace(entry.Text) != "" {
		fmt.Fprintf(&builder, "Journal: %s\n", entry.Text)
	}
	if strings.TrimSpace(entry.Gratitude) != "" {
		fmt.Fprintf(&builder, "Gratitude: %s\n", entry.Gratitude)
	}
	return builder.String()
}
