package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"finreport/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// ReportSummary is the structured executive summary of a vertical analysis.
type ReportSummary struct {
	AssetStructure     string `json:"asset_structure" jsonschema_description:"One paragraph on the composition of assets and where the weight sits"`
	FinancingStructure string `json:"financing_structure" jsonschema_description:"One paragraph on the liability/equity mix financing those assets"`
	Profitability      string `json:"profitability" jsonschema_description:"One paragraph on margins relative to revenue"`
	Conclusion         string `json:"conclusion" jsonschema_description:"Two or three sentences of overall assessment"`
}

// Summarizer produces narrative summaries of computed analyses. It is an
// optional sink: figures never depend on it, and a missing API key leaves it
// disabled rather than failing startup.
type Summarizer struct {
	client *openai.Client
}

// NewSummarizer builds a Summarizer, disabled when apiKey is empty.
func NewSummarizer(apiKey string) *Summarizer {
	if apiKey == "" {
		return &Summarizer{}
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Summarizer{client: &client}
}

// Enabled reports whether a client is configured.
func (s *Summarizer) Enabled() bool {
	return s != nil && s.client != nil
}

// SummarizeVertical asks the model for an executive summary of one period's
// vertical analysis. The model only narrates figures computed upstream; it is
// never asked to calculate.
func (s *Summarizer) SummarizeVertical(ctx context.Context, report *core.Report, va *core.VerticalAnalysis) (*ReportSummary, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("summarizer disabled: no API key configured")
	}

	prompt := fmt.Sprintf(`You are a financial analyst writing for company management.
Below is a classified balance and income statement for fiscal year %d, with each
account expressed as a percentage of its base (Total Assets for balance sheet
accounts, Revenue for income statement accounts).

Write a concise executive summary. Do not recalculate anything; only interpret
the percentages given. Do not invent figures absent from the data.

%s`, report.Year, renderVerticalDigest(report, va))

	schemaStruct := generateSummarySchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "report_summary",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("An executive summary of a vertical financial analysis"),
				},
			},
		},
	}

	resp, err := s.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var summary ReportSummary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	return &summary, nil
}

// renderVerticalDigest flattens the report plus its percentages into a plain
// text block for the prompt, one line per account, grouped by category.
func renderVerticalDigest(report *core.Report, va *core.VerticalAnalysis) string {
	var b strings.Builder
	for _, cat := range core.Categories {
		accounts := report.AccountsIn(cat)
		if len(accounts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", cat)
		for _, acct := range accounts {
			fmt.Fprintf(&b, "  - %s: %.2f (%.2f%%)\n", acct.Name, acct.Amount, va.Percentages[acct.ID])
		}
	}

	keys := make([]string, 0, len(report.Totals))
	for k := range report.Totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("Totals:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  - %s: %.2f (%.2f%%)\n", k, report.Totals[k], va.TotalPercents[k])
	}
	return b.String()
}

func generateSummarySchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v ReportSummary
	return reflector.Reflect(v)
}
