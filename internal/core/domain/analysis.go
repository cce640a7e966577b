package domain

import "fmt"

type TopicFrequency struct {
	Topic      string  `json:"topic"`
	Frequency  float64 `json:"frequency"`
	Percentage float64 `json:"percentage"`
}

type TopicShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type TopicPrediction struct {
	Topic       string  `json:"topic"`
	Probability float64 `json:"probability"`
}

type ExamPredictions struct {
	CT1    []TopicPrediction `json:"ct1"`
	CT2    []TopicPrediction `json:"ct2"`
	EndSem []TopicPrediction `json:"endsem"`
}

type AnalysisResult struct {
	TopicFrequency      []TopicFrequency `json:"topicFrequency"`
	TopicDistribution   []TopicShare     `json:"topicDistribution"`
	Predictions         ExamPredictions  `json:"predictions"`
	StudyRecommendation string           `json:"studyRecommendation"`
}

// Validate range-checks the fields the model filled in.
func (r AnalysisResult) Validate() error {
	for _, tf := range r.TopicFrequency {
		if tf.Frequency < 0 || tf.Frequency != float64(int64(tf.Frequency)) {
			return NewError(ErrGenerationFailed, "validate analysis", fmt.Sprintf("frequency %v is not a non-negative integer for topic %q", tf.Frequency, tf.Topic))
		}
		if !inPercentRange(tf.Percentage) {
			return NewError(ErrGenerationFailed, "validate analysis", fmt.Sprintf("percentage %v out of range for topic %q", tf.Percentage, tf.Topic))
		}
	}

	tiers := []struct {
		name        string
		predictions []TopicPrediction
	}{
		{"ct1", r.Predictions.CT1},
		{"ct2", r.Predictions.CT2},
		{"endsem", r.Predictions.EndSem},
	}
	for _, tier := range tiers {
		for _, p := range tier.predictions {
			if !inPercentRange(p.Probability) {
				return NewError(ErrGenerationFailed, "validate analysis", fmt.Sprintf("%s probability %v out of range for topic %q", tier.name, p.Probability, p.Topic))
			}
		}
	}
	return nil
}

func inPercentRange(v float64) bool {
	return v >= 0 && v <= 100
}
