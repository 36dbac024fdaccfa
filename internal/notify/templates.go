package notify

import (
	"fmt"
	"strings"

	"github.com/osteele/liquid"

	"github.com/lumina/glow-platform/internal/domain"
)

var bodyEngine = liquid.NewEngine()

const emailBodyTemplate = `Hi there!

{{ body }}
{% if actions != "" %}
You can: {{ actions }}.
{% endif %}
With love,
The Glow team`

// RenderEmailBody produces the plain-text email body for a reminder.
func RenderEmailBody(n domain.ScheduledNotification) (string, error) {
	out, err := bodyEngine.ParseAndRenderString(emailBodyTemplate, map[string]interface{}{
		"body":    n.Body,
		"actions": strings.Join(n.Actions, ", "),
	})
	if err != nil {
		return "", fmt.Errorf("rendering reminder body: %w", err)
	}
	return out, nil
}
