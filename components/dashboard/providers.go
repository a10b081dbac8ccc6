package dashboard

import (
	"context"
	"fmt"
)

// ControllerSet bundles the live widget controllers the providers read from.
type ControllerSet struct {
	Sales       *SalesController
	Maintenance *MaintenanceController
	Chat        *ChatController
	Results     ResultFeed
}

// RegisterProviders wires providers for every built-in widget definition.
// Chart options apply to every chart-backed provider.
func RegisterProviders(reg ProviderRegistry, set ControllerSet, chartOpts ...EChartsProviderOption) error {
	providers := map[string]Provider{
		WidgetSales:       newSalesWidgetProvider(set.Sales),
		WidgetMaintenance: newMaintenanceWidgetProvider(set.Maintenance),
		WidgetChat:        newChatWidgetProvider(set.Chat),
		WidgetSalesTrend:  NewResultTrendProvider(set.Results, NewEChartsProvider("line", chartOpts...)),
		WidgetRiskGauge:   NewRiskGaugeProvider(set.Results, NewEChartsProvider("gauge", chartOpts...)),
	}
	for code, provider := range providers {
		if err := reg.RegisterProvider(code, provider); err != nil {
			return err
		}
	}
	return nil
}

func newSalesWidgetProvider(controller *SalesController) Provider {
	return ProviderFunc(func(_ context.Context, _ WidgetContext) (WidgetData, error) {
		if controller == nil {
			return nil, fmt.Errorf("sales widget: controller is required")
		}
		state := controller.State()
		data := WidgetData{
			"phase": state.Phase.String(),
			"form":  state.Form,
			"error": state.ErrorMessage,
		}
		if state.Result != nil {
			data["prediction"] = state.Result.Prediction
			if state.Result.Accuracy != nil {
				data["accuracy"] = *state.Result.Accuracy
			}
		}
		return data, nil
	})
}

func newMaintenanceWidgetProvider(controller *MaintenanceController) Provider {
	return ProviderFunc(func(_ context.Context, _ WidgetContext) (WidgetData, error) {
		if controller == nil {
			return nil, fmt.Errorf("maintenance widget: controller is required")
		}
		state := controller.State()
		data := WidgetData{
			"phase": state.Phase.String(),
			"form":  state.Form,
			"error": state.ErrorMessage,
		}
		if state.Result != nil {
			data["prediction"] = state.Result.Prediction
			data["probability"] = state.Result.Probability
			data["severity"] = string(state.Severity)
		}
		return data, nil
	})
}

func newChatWidgetProvider(controller *ChatController) Provider {
	return ProviderFunc(func(_ context.Context, _ WidgetContext) (WidgetData, error) {
		if controller == nil {
			return nil, fmt.Errorf("chat widget: controller is required")
		}
		state := controller.State()
		messages := make([]map[string]any, 0, len(state.Transcript))
		for _, msg := range state.Transcript {
			messages = append(messages, map[string]any{
				"role": string(msg.Role),
				"text": msg.Text,
			})
		}
		return WidgetData{
			"phase":      state.Phase.String(),
			"draft":      state.Draft,
			"transcript": messages,
		}, nil
	})
}

// ResultTrendProvider charts recent sales predictions as a line series.
type ResultTrendProvider struct {
	feed     ResultFeed
	renderer *EChartsProvider
}

// NewResultTrendProvider builds a provider backed by the result feed.
func NewResultTrendProvider(feed ResultFeed, renderer *EChartsProvider) Provider {
	if renderer == nil {
		renderer = NewEChartsProvider("line")
	}
	return &ResultTrendProvider{feed: feed, renderer: renderer}
}

// Fetch renders the sales trend widget.
func (p *ResultTrendProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	if p.feed == nil {
		return nil, fmt.Errorf("sales trend provider: result feed is required")
	}
	cfg := meta.Instance.Configuration
	if cfg == nil {
		cfg = map[string]any{}
	}
	limit := intValue(cfg["limit"], 12)

	entries, err := resultsForWidget(ctx, p.feed, meta.Viewer, WidgetSales, limit)
	if err != nil {
		return nil, fmt.Errorf("sales trend provider: %w", err)
	}
	if len(entries) == 0 {
		return WidgetData{
			"chart_type": "line",
			"title":      stringValue(cfg["title"], "Sales Trend"),
			"empty":      true,
		}, nil
	}

	values := make([]float64, len(entries))
	labels := make([]string, len(entries))
	for i, entry := range entries {
		values[i] = entry.Value
		labels[i] = entry.At.Format("15:04:05")
	}

	temp := meta
	temp.Instance.Configuration = map[string]any{
		"title":    stringValue(cfg["title"], "Sales Trend"),
		"subtitle": stringValue(cfg["subtitle"], ""),
		"x_axis":   labels,
		"series": []map[string]any{{
			"name": "Predicted Sales",
			"data": values,
		}},
		"theme": cfg["theme"],
	}
	return p.renderer.Fetch(ctx, temp)
}

// RiskGaugeProvider charts the latest failure probability as a gauge.
type RiskGaugeProvider struct {
	feed     ResultFeed
	renderer *EChartsProvider
}

// NewRiskGaugeProvider builds a provider backed by the result feed.
func NewRiskGaugeProvider(feed ResultFeed, renderer *EChartsProvider) Provider {
	if renderer == nil {
		renderer = NewEChartsProvider("gauge")
	}
	return &RiskGaugeProvider{feed: feed, renderer: renderer}
}

// Fetch renders the failure risk widget.
func (p *RiskGaugeProvider) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	if p.feed == nil {
		return nil, fmt.Errorf("risk gauge provider: result feed is required")
	}
	cfg := meta.Instance.Configuration
	if cfg == nil {
		cfg = map[string]any{}
	}

	entries, err := resultsForWidget(ctx, p.feed, meta.Viewer, WidgetMaintenance, 1)
	if err != nil {
		return nil, fmt.Errorf("risk gauge provider: %w", err)
	}
	if len(entries) == 0 {
		return WidgetData{
			"chart_type": "gauge",
			"title":      stringValue(cfg["title"], "Failure Risk"),
			"empty":      true,
		}, nil
	}

	latest := entries[len(entries)-1]
	temp := meta
	temp.Instance.Configuration = map[string]any{
		"title": stringValue(cfg["title"], "Failure Risk"),
		"series": []map[string]any{{
			"name": "Risk",
			"data": []map[string]any{{
				"name":  "Risk %",
				"value": latest.Value * 100,
			}},
		}},
		"theme": cfg["theme"],
	}
	data, err := p.renderer.Fetch(ctx, temp)
	if err != nil {
		return nil, err
	}
	data["severity"] = string(latest.Severity)
	return data, nil
}

func resultsForWidget(ctx context.Context, feed ResultFeed, viewer ViewerContext, widget string, limit int) ([]ResultEntry, error) {
	if log, ok := feed.(*ResultLog); ok {
		return log.ForWidget(ctx, viewer, widget, limit)
	}
	entries, err := feed.Recent(ctx, viewer, 0)
	if err != nil {
		return nil, err
	}
	var out []ResultEntry
	for _, entry := range entries {
		if entry.Widget != widget || entry.Failed {
			continue
		}
		out = append(out, entry)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
