// internal/notify/slack.go
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/dineiq/dineiq/internal/forecast"
)

// Notifier delivers operator-facing alerts. Implementations must be safe
// for concurrent use.
type Notifier interface {
	NotifyWasteRisk(ctx context.Context, predictions []*forecast.WastePrediction, totalCost float64) error
	NotifyTruckOrder(ctx context.Context, order *forecast.TruckOrder) error
}

type slackNotifier struct {
	api     *slack.Client
	channel string
}

// NewSlackNotifier builds a Notifier posting to one Slack channel. Returns
// a no-op notifier when the token or channel is empty so callers never
// need a nil check.
func NewSlackNotifier(token, channel string) Notifier {
	if token == "" || channel == "" {
		return &noopNotifier{}
	}
	return &slackNotifier{
		api:     slack.New(token),
		channel: channel,
	}
}

func (n *slackNotifier) NotifyWasteRisk(ctx context.Context, predictions []*forecast.WastePrediction, totalCost float64) error {
	if len(predictions) == 0 {
		return nil
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType,
				fmt.Sprintf("Waste risk: %d items, ~$%.2f at stake", len(predictions), totalCost),
				false, false,
			),
		),
	}
	for _, p := range predictions {
		text := fmt.Sprintf("*%s*: %.1f units predicted waste by %s ($%.2f)",
			p.ItemName, p.PredictedWasteQty, p.PredictedWasteDate.Format("Jan 2 15:04"), p.CostImpact)
		if len(p.Mitigations) > 0 {
			text += fmt.Sprintf("\n_%s_", p.Mitigations[0])
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil,
		))
	}

	_, _, err := n.api.PostMessageContext(ctx, n.channel, slack.MsgOptionBlocks(blocks...))
	if err != nil {
		return fmt.Errorf("failed to post waste alert: %w", err)
	}
	return nil
}

func (n *slackNotifier) NotifyTruckOrder(ctx context.Context, order *forecast.TruckOrder) error {
	if order.TotalItems == 0 {
		return nil
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType,
				fmt.Sprintf("Truck order ready: %d items, $%.2f total", order.TotalItems, order.TotalCost),
				false, false,
			),
		),
	}
	for _, sub := range order.SupplierBreakdown {
		text := fmt.Sprintf("*%s*: %d items, $%.2f", sub.SupplierID, sub.ItemCount, sub.TotalCost)
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil,
		))
	}

	_, _, err := n.api.PostMessageContext(ctx, n.channel, slack.MsgOptionBlocks(blocks...))
	if err != nil {
		return fmt.Errorf("failed to post truck order notice: %w", err)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) NotifyWasteRisk(context.Context, []*forecast.WastePrediction, float64) error {
	return nil
}

func (noopNotifier) NotifyTruckOrder(context.Context, *forecast.TruckOrder) error {
	return nil
}
