// Package analysis assembles the fashion analysis pipeline: color
// extraction, style classification, and outfit suggestions over an
// uploaded photo.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/google/uuid"

	"github.com/lumina/glow-platform/internal/domain"
	"github.com/lumina/glow-platform/internal/palette"
	"github.com/lumina/glow-platform/internal/pkg/logger"
	"github.com/lumina/glow-platform/internal/store"
)

// ErrInvalidImage is returned when the upload cannot be decoded.
var ErrInvalidImage = errors.New("analysis: image could not be decoded")

const dominantColorCount = 3

// Style defaults used when the classifier is unavailable or fails.
const defaultPrimaryStyle = "casual"

var defaultSecondaryStyles = []string{"minimalist", "classic"}

// Uploader archives the original upload. Archival is best-effort; a failed
// upload never fails the analysis.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte) error
}

// Pipeline runs the full analysis flow. classifier and uploader may be nil,
// in which case their stages fall back or are skipped.
type Pipeline struct {
	classifier Classifier
	docs       store.DocumentStore
	uploader   Uploader
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(classifier Classifier, docs store.DocumentStore, uploader Uploader) *Pipeline {
	return &Pipeline{classifier: classifier, docs: docs, uploader: uploader}
}

// Analyze decodes the upload and runs every stage. Persistence and archival
// failures are logged and the assembled result is still returned.
func (p *Pipeline) Analyze(ctx context.Context, userID string, imageData []byte) (domain.AnalysisResult, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	img = palette.Downscale(img)
	hexes := palette.DominantColors(palette.SamplePixels(img), dominantColorCount)

	names := make([]string, len(hexes))
	for i, h := range hexes {
		names[i] = ColorName(h)
	}

	// Placeholder pairing heuristic until a real color wheel lands: the
	// dominant list reversed reads as "accent colors first".
	complementary := make([]string, len(hexes))
	for i, h := range hexes {
		complementary[len(hexes)-1-i] = h
	}

	primary, secondary := p.classifyStyles(ctx, imageData)

	result := domain.AnalysisResult{
		ID:                  uuid.New().String(),
		UserID:              userID,
		DominantColors:      hexes,
		ColorNames:          names,
		ComplementaryColors: complementary,
		PrimaryStyle:        primary,
		SecondaryStyles:     secondary,
		OutfitSuggestions:   OutfitSuggestions(primary, secondary, names),
		CreatedAt:           time.Now().UTC(),
	}

	if p.uploader != nil {
		key := fmt.Sprintf("analyses/%s/%s", userID, result.ID)
		if err := p.uploader.Upload(ctx, key, imageData); err != nil {
			logger.Warn("Failed to archive analysis image", "user_id", userID, "analysis_id", result.ID, "error", err.Error())
		} else {
			result.ImageKey = key
		}
	}

	if p.docs != nil {
		if _, err := p.docs.Insert(ctx, store.CollectionAnalyses, result); err != nil {
			logger.Warn("Failed to persist analysis", "user_id", userID, "analysis_id", result.ID, "error", err.Error())
		}
	}

	return result, nil
}

// History returns the stored analyses for a user, oldest first.
func (p *Pipeline) History(ctx context.Context, userID string) ([]domain.AnalysisResult, error) {
	if p.docs == nil {
		return nil, nil
	}
	raws, err := p.docs.Find(ctx, store.CollectionAnalyses, store.Eq("user_id", userID))
	if err != nil {
		return nil, fmt.Errorf("loading analyses for %s: %w", userID, err)
	}

	results := make([]domain.AnalysisResult, 0, len(raws))
	for _, raw := range raws {
		var r domain.AnalysisResult
		if err := json.Unmarshal(raw, &r); err != nil {
			logger.Warn("Skipping undecodable analysis record", "user_id", userID, "error", err.Error())
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func (p *Pipeline) classifyStyles(ctx context.Context, imageData []byte) (string, []string) {
	if p.classifier == nil {
		return defaultPrimaryStyle, defaultSecondaryStyles
	}

	tags, err := p.classifier.Classify(ctx, imageData)
	if err != nil || len(tags) == 0 {
		if err != nil {
			logger.Warn("Classifier call failed, using default styles", "error", err.Error())
		}
		return defaultPrimaryStyle, defaultSecondaryStyles
	}

	primary := tags[0].Label
	secondary := []string{}
	for _, tag := range tags[1:] {
		if len(secondary) == 2 {
			break
		}
		secondary = append(secondary, tag.Label)
	}
	return primary, secondary
}
