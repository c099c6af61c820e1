package types

import "time"

// PanelType is a solar panel technology recommendation.
type PanelType string

const (
	PanelMonocrystalline PanelType = "Monocrystalline"
	PanelPolycrystalline PanelType = "Polycrystalline"
	PanelThinFilm        PanelType = "Thin-film"
)

// AllPanelTypes returns every panel type the analyzer can recommend.
func AllPanelTypes() []PanelType {
	return []PanelType{PanelMonocrystalline, PanelPolycrystalline, PanelThinFilm}
}

// MountingType is a panel mounting recommendation.
type MountingType string

const (
	MountingRoof               MountingType = "Roof-mounted"
	MountingGround             MountingType = "Ground-mounted"
	MountingBuildingIntegrated MountingType = "Building-integrated"
)

// AllMountingTypes returns every mounting type the analyzer can recommend.
func AllMountingTypes() []MountingType {
	return []MountingType{MountingRoof, MountingGround, MountingBuildingIntegrated}
}

// ElectricalConfig is an electrical configuration recommendation.
type ElectricalConfig string

const (
	ElectricalGridTied ElectricalConfig = "Grid-tied"
	ElectricalOffGrid  ElectricalConfig = "Off-grid"
	ElectricalHybrid   ElectricalConfig = "Hybrid"
)

// AllElectricalConfigs returns every electrical configuration the analyzer
// can recommend.
func AllElectricalConfigs() []ElectricalConfig {
	return []ElectricalConfig{ElectricalGridTied, ElectricalOffGrid, ElectricalHybrid}
}

// AnalysisReport is the structured result of a rooftop analysis.
type AnalysisReport struct {
	// SolarPotentialPercent is in [0, 100] with at most one decimal digit.
	SolarPotentialPercent float64 `json:"solarPotentialPercent"`

	RecommendedPanelType   PanelType        `json:"recommendedPanelType"`
	MountingRecommendation MountingType     `json:"mountingRecommendation"`
	ElectricalConfig       ElectricalConfig `json:"electricalConfig"`

	// EstimatedInstallationCost is in whole dollars.
	EstimatedInstallationCost int `json:"estimatedInstallationCost"`

	ExpectedAnnualEnergyKWH int `json:"expectedAnnualEnergyKWH"`

	// ConfidenceScore is in [0.70, 0.95] with at most two decimal digits.
	ConfidenceScore float64 `json:"confidenceScore"`
}

// AnalysisSource indicates how the analyzed image reached the service.
type AnalysisSource string

const (
	AnalysisSourceUpload AnalysisSource = "upload"
	AnalysisSourceURL    AnalysisSource = "url"
)

// AnalysisRecord is a completed analysis along with the ROI projection that
// was computed from it. Records are persisted so past runs show up in the
// history endpoint.
type AnalysisRecord struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	Source      AnalysisSource `json:"source"`
	ImageWidth  int            `json:"imageWidth"`
	ImageHeight int            `json:"imageHeight"`
	Analysis    AnalysisReport `json:"analysis"`
	ROI         ROIReport      `json:"roi"`
}
