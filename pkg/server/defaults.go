package server

import (
	"net/http"

	"github.com/roofsight/roofsight/pkg/types"
)

// defaultsResponse gives the form UI the configured ROI assumptions and the
// recommendation vocabularies.
type defaultsResponse struct {
	EnergyCostPerKWH  float64                  `json:"energyCostPerKWH"`
	IncentiveRate     float64                  `json:"incentiveRate"`
	LifespanYears     int                      `json:"lifespanYears"`
	PanelTypes        []types.PanelType        `json:"panelTypes"`
	MountingTypes     []types.MountingType     `json:"mountingTypes"`
	ElectricalConfigs []types.ElectricalConfig `json:"electricalConfigs"`
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, defaultsResponse{
		EnergyCostPerKWH:  s.roiDefaults.EnergyCostPerKWH,
		IncentiveRate:     s.roiDefaults.IncentiveRate,
		LifespanYears:     s.roiDefaults.LifespanYears,
		PanelTypes:        types.AllPanelTypes(),
		MountingTypes:     types.AllMountingTypes(),
		ElectricalConfigs: types.AllElectricalConfigs(),
	})
}
