package domain

import "testing"

func validResult() AnalysisResult {
	return AnalysisResult{
		TopicFrequency:    []TopicFrequency{{Topic: "Graphs", Frequency: 3, Percentage: 30}},
		TopicDistribution: []TopicShare{{Name: "Graphs", Value: 30}},
		Predictions: ExamPredictions{
			CT1:    []TopicPrediction{{Topic: "Graphs", Probability: 0}},
			CT2:    []TopicPrediction{{Topic: "Trees", Probability: 100}},
			EndSem: []TopicPrediction{{Topic: "DP", Probability: 55.5}},
		},
		StudyRecommendation: "Revise graphs.",
	}
}

func TestAnalysisResultValidateAcceptsBounds(t *testing.T) {
	if err := validResult().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestAnalysisResultValidateRejectsOutOfRange(t *testing.T) {
	mutations := map[string]func(*AnalysisResult){
		"negative frequency":   func(r *AnalysisResult) { r.TopicFrequency[0].Frequency = -1 },
		"fractional frequency": func(r *AnalysisResult) { r.TopicFrequency[0].Frequency = 1.5 },
		"percentage over 100":  func(r *AnalysisResult) { r.TopicFrequency[0].Percentage = 100.1 },
		"ct1 below zero":       func(r *AnalysisResult) { r.Predictions.CT1[0].Probability = -0.1 },
		"endsem over 100":      func(r *AnalysisResult) { r.Predictions.EndSem[0].Probability = 101 },
	}
	for name, mutate := range mutations {
		result := validResult()
		mutate(&result)
		err := result.Validate()
		if !IsKind(err, ErrGenerationFailed) {
			t.Fatalf("%s: expected ErrGenerationFailed, got %v", name, err)
		}
	}
}

func TestWrapErrorKeepsKindAndCause(t *testing.T) {
	cause := NewError(ErrUpstream, "inner", "boom")
	err := WrapError(ErrStore, "outer", cause)
	if !IsKind(err, ErrStore) || !IsKind(err, ErrUpstream) {
		t.Fatalf("expected both kinds in chain, got %v", err)
	}
	if WrapError(ErrStore, "outer", nil) != nil {
		t.Fatalf("expected nil for nil cause")
	}
}

func TestClientMessageSurvivesWrapping(t *testing.T) {
	err := WrapError(ErrUpstream, "outer", NewClientError(ErrInvalidInput, "sanitize", "Invalid message role"))
	msg, ok := ClientMessage(err)
	if !ok || msg != "Invalid message role" {
		t.Fatalf("ClientMessage() = %q, %v", msg, ok)
	}
	if !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected kind to unwrap through ClientError")
	}
	if _, ok := ClientMessage(NewError(ErrStore, "list", "boom")); ok {
		t.Fatalf("plain errors carry no client message")
	}
}
