package usecase

import "github.com/sashabaranov/go-openai/jsonschema"

// AnalysisSchemaVersion changes whenever the output contract changes,
// independently of the prompt wording.
const AnalysisSchemaVersion = "pyq-analysis/v1"

const (
	analysisFunctionName    = "analyze_pyq"
	analysisFunctionSummary = "Analyze PYQ and generate predictions"
)

func predictionList() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Array,
		Items: &jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"topic":       {Type: jsonschema.String},
				"probability": {Type: jsonschema.Number},
			},
			Required: []string{"topic", "probability"},
		},
	}
}

// AnalysisSchema is the declared shape of the analyze_pyq arguments.
func AnalysisSchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"topicFrequency": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"topic":      {Type: jsonschema.String},
						"frequency":  {Type: jsonschema.Number},
						"percentage": {Type: jsonschema.Number},
					},
					Required: []string{"topic", "frequency", "percentage"},
				},
			},
			"topicDistribution": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"name":  {Type: jsonschema.String},
						"value": {Type: jsonschema.Number},
					},
					Required: []string{"name", "value"},
				},
			},
			"predictions": {
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"ct1":    predictionList(),
					"ct2":    predictionList(),
					"endsem": predictionList(),
				},
				Required: []string{"ct1", "ct2", "endsem"},
			},
			"studyRecommendation": {Type: jsonschema.String},
		},
		Required: []string{"topicFrequency", "topicDistribution", "predictions", "studyRecommendation"},
	}
}
