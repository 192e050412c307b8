package outbox

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
)

// describeEvents renders a batch as "created seed_data 7, deleted seed_data 9" for logs.
func describeEvents(events []*entity.OutboxEvent) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		change := "unknown"

		var payload dto.ChangeEvent
		if err := json.Unmarshal(e.Payload, &payload); err == nil && payload.Change != "" {
			change = string(payload.Change)
		}

		parts = append(parts, fmt.Sprintf("%s seed_data %d", change, e.AggregateID))
	}

	return strings.Join(parts, ", ")
}
