package types

// AnalysisRequest is the body of POST /analyze. Usually a DetectionResult echoed back.
type AnalysisRequest struct {
	Object    string   `json:"object"`
	Materials []string `json:"materials"`
}

// AnalysisResult is the shape the impact-analysis prompt asks for. It is not
// enforced on responses.
type AnalysisResult struct {
	EnvironmentalImpact EnvironmentalImpact `json:"environmental_impact"`
	Recycling           Recycling           `json:"recycling"`
	Upcycling           Upcycling           `json:"upcycling"`
}

type EnvironmentalImpact struct {
	CO2Emissions     string            `json:"CO2_emissions"`
	HazardousEffects []string          `json:"hazardous_effects"`
	DegradationTime  map[string]string `json:"degradation_time"` // material -> time
}

type Recycling struct {
	Steps         []string          `json:"steps"`
	NearbyCenters []RecyclingCenter `json:"nearby_centers"`
}

type RecyclingCenter struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

type Upcycling struct {
	Ideas []string `json:"ideas"`
}
