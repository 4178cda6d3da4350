// Package prompt holds the fixed instructions sent to the model.
package prompt

import (
	"fmt"
	"strings"

	"recycle-lens/api/internal/llm/types"
)

// Detect is sent together with the uploaded image.
const Detect = `Analyze the provided image and identify the primary or most noticeable object.
Use a generic name for the object. Do not detect model or category of the object.
Your response must strictly adhere to the following JSON format:

` + "```json" + `
{
  "object": "<Name of the object>",
  "materials": ["<Material 1>", "<Material 2>", "<Material 3>", ...]
}
` + "```" + `

Ensure the output is a valid JSON string. Do not include any additional text or explanations outside of the JSON structure.
The "object" field should contain the name of the identified object.
The "materials" field should be an array listing the materials that make up the object.`

// AnalysisSchema describes the answer expected for Analyze.
const AnalysisSchema = `{
  "environmental_impact": {
    "CO2_emissions": "<CO2 emissions per unit if not recycled>",
    "hazardous_effects": [
      "<Hazardous effect 1>",
      "<Hazardous effect 2>",
      ...
    ],
    "degradation_time": {
      "<Material 1>": "<Degradation time>",
      "<Material 2>": "<Degradation time>",
      ...
    }
  },
  "recycling": {
    "steps": [
      "<Recycling step 1>",
      "<Recycling step 2>",
      ...
    ],
    "nearby_centers": [
      {
        "name": "<Recycling center name>",
        "address": "<Recycling center address>",
        "contact": "<Recycling center contact>"
      },
      ...
    ]
  },
  "upcycling": {
    "ideas": [
      "<Upcycling idea 1>",
      "<Upcycling idea 2>",
      ...
    ]
  }
}`

// Analyze builds the impact-analysis prompt for one object.
func Analyze(in types.AnalysisRequest) string {
	var b strings.Builder
	b.WriteString("Analyze the following object and its materials for environmental impact, recycling, and upcycling:\n\n")
	_, _ = fmt.Fprintf(&b, "Object: %s\n", in.Object)
	_, _ = fmt.Fprintf(&b, "Materials: %s\n\n", strings.Join(in.Materials, ", "))
	b.WriteString("Provide a JSON response in the following format:\n\n```json\n")
	b.WriteString(AnalysisSchema)
	b.WriteString("\n```\n\n")
	b.WriteString("Ensure the output is a valid JSON string. Do not include any additional text or explanations outside of the JSON structure.")
	return b.String()
}
