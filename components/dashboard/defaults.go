package dashboard

import (
	"github.com/go-echarts/go-echarts/v2/types"
)

var defaultAreaDefinitions = []WidgetAreaDefinition{
	{Code: "bi.dashboard.main", Name: "Dashboard (Main)", Description: "Primary prediction widgets"},
	{Code: "bi.dashboard.side", Name: "Dashboard (Side)", Description: "Assistant and summary widgets"},
}

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code:        WidgetSales,
		Name:        "Sales Prediction",
		Description: "Predicts sales revenue from store conditions.",
		Category:    "predictions",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"region": map[string]any{
					"type":    "string",
					"enum":    []string{"East", "North", "South", "West"},
					"default": "East",
				},
				"show_accuracy": map[string]any{
					"type":    "boolean",
					"default": true,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetMaintenance,
		Name:        "Maintenance Prediction",
		Description: "Flags equipment at risk of failure from sensor readings.",
		Category:    "predictions",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"critical_threshold": map[string]any{
					"type":    "number",
					"minimum": 0,
					"maximum": 1,
					"default": criticalProbability,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetChat,
		Name:        "BI Assistant",
		Description: "Conversational assistant for ad-hoc questions.",
		Category:    "assistant",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"max_transcript": map[string]any{
					"type":    "integer",
					"minimum": 2,
					"maximum": 200,
					"default": 50,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        WidgetSalesTrend,
		Name:        "Sales Trend",
		Description: "Line chart of recent sales predictions.",
		Category:    "charts",
		Schema:      chartConfigSchema(true),
	},
	{
		Code:        WidgetRiskGauge,
		Name:        "Failure Risk",
		Description: "Gauge showing the latest failure probability.",
		Category:    "charts",
		Schema:      chartConfigSchema(false),
	},
}

func chartConfigSchema(includeAxis bool) map[string]any {
	props := map[string]any{
		"title": map[string]any{
			"type":    "string",
			"default": "Chart",
		},
		"subtitle": map[string]any{
			"type": "string",
		},
		"limit": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": 50,
			"default": 12,
		},
		"theme": map[string]any{
			"type": "string",
			"enum": []string{
				string(types.ThemeWesteros),
				string(types.ThemeWalden),
				string(types.ThemeWonderland),
				string(types.ThemeChalk),
			},
		},
		"show_chart_title": map[string]any{
			"type":    "boolean",
			"default": false,
		},
	}
	if includeAxis {
		props["x_axis"] = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "string",
			},
		}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

var defaultSeedConfigs = []AddWidgetRequest{
	{
		DefinitionID:  WidgetSales,
		AreaCode:      "bi.dashboard.main",
		Configuration: map[string]any{"region": "East"},
	},
	{
		DefinitionID:  WidgetMaintenance,
		AreaCode:      "bi.dashboard.main",
		Configuration: map[string]any{},
	},
	{
		DefinitionID:  WidgetSalesTrend,
		AreaCode:      "bi.dashboard.main",
		Configuration: map[string]any{"title": "Sales Trend"},
	},
	{
		DefinitionID:  WidgetChat,
		AreaCode:      "bi.dashboard.side",
		Configuration: map[string]any{},
	},
	{
		DefinitionID:  WidgetRiskGauge,
		AreaCode:      "bi.dashboard.side",
		Configuration: map[string]any{"title": "Failure Risk"},
	},
}

// DefaultAreaDefinitions returns copies of built-in area definitions.
func DefaultAreaDefinitions() []WidgetAreaDefinition {
	out := make([]WidgetAreaDefinition, len(defaultAreaDefinitions))
	copy(out, defaultAreaDefinitions)
	return out
}

// DefaultWidgetDefinitions returns copies of built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(out, defaultWidgetDefinitions)
	return out
}

// DefaultSeedWidgets returns starter widget configurations.
func DefaultSeedWidgets() []AddWidgetRequest {
	out := make([]AddWidgetRequest, len(defaultSeedConfigs))
	copy(out, defaultSeedConfigs)
	return out
}
