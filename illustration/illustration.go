package illustration

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hnchronicle/hnchronicle/curator"
	Logger "github.com/hnchronicle/hnchronicle/utils/log"
)

const (
	placeholderHeight = 400
	placeholderWidth  = 600
)

const descriptionPromptTemplate = `Create a detailed description for an image based on this concept: "%s"

The description should be suitable for an AI image generator and should create a newspaper-style illustration that represents the concept. Include details about style, composition, colors, and mood.

Make it visually interesting and suitable for a tech news website.

Return ONLY the description, nothing else.`

// Service turns a short caption phrase into an illustration brief and
// resolves it to an image reference. No real image synthesis happens here:
// the reference is a placeholder parameterized by the brief, and callers must
// not treat it as a rendered asset.
type Service struct {
	completer curator.TextCompleter
}

func NewService(completer curator.TextCompleter) *Service {
	return &Service{completer: completer}
}

// GenerateImageDescription elaborates the phrase into a newspaper-style
// illustration brief, degrading to a deterministic description embedding the
// phrase on failure.
func (s *Service) GenerateImageDescription(ctx context.Context, phrase string) (string, bool) {
	text, err := s.completer.Complete(ctx, fmt.Sprintf(descriptionPromptTemplate, phrase))
	if err != nil {
		Logger.Log.Error("illustration brief call failed, using fallback description: ", err)
		return fmt.Sprintf("A minimalist illustration representing %s in a newspaper style", phrase), true
	}
	description := strings.TrimSpace(text)
	if description == "" {
		return fmt.Sprintf("A minimalist illustration representing %s in a newspaper style", phrase), true
	}
	return description, false
}

// ResolveImage returns the placeholder reference for a description. The
// description is encoded into the URL so every brief maps to a distinct
// reference.
func (s *Service) ResolveImage(description string) string {
	return fmt.Sprintf("/placeholder.svg?height=%d&width=%d&text=%s",
		placeholderHeight, placeholderWidth, url.QueryEscape(description))
}
