package transcript

import "encoding/json"

// Analysis is the LLM assessment stored next to a transcript.
type Analysis struct {
	Score      Score           `json:"Overall Call Score"`
	Conclusion Conclusion      `json:"Conclusion"`
	Entries    []AnalysisEntry `json:"Analysis"`
}

type Score struct {
	Total    float64            `json:"total"`
	Criteria map[string]float64 `json:"criteria"`
}

type Conclusion struct {
	Insights     []string `json:"insights"`
	FollowUpPlan struct {
		ActionItems []ActionItem `json:"actionItems"`
	} `json:"follow_up_plan"`
}

type ActionItem struct {
	Item            string   `json:"item"`
	Timeline        string   `json:"timeline"`
	ActionsRequired []string `json:"actions_required"`
}

// AnalysisEntry assesses the utterance at Index.
type AnalysisEntry struct {
	Index    int    `json:"index"`
	Speaker  string `json:"speaker"`
	Analysis struct {
		Strengths     []string `json:"strengths"`
		Weaknesses    []string `json:"weaknesses"`
		Improvements  []string `json:"improvements"`
		HiddenIntents []string `json:"hidden_intents"`
	} `json:"analysis"`
}

func parseAnalysis(raw json.RawMessage) *Analysis {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil
	}
	return &a
}
