package store

import (
	"encoding/json"
	"os"

	"github.com/san-kum/tersim/internal/sim"
)

type ExportData struct {
	Potential   string    `json:"potential"`
	Structure   string    `json:"structure"`
	Thermostat  string    `json:"thermostat"`
	Dt          float64   `json:"dt"`
	Steps       int       `json:"steps"`
	Times       []float64 `json:"times"`
	PotentialE  []float64 `json:"potential_energy"`
	KineticE    []float64 `json:"kinetic_energy"`
	Temperature []float64 `json:"temperature"`
	Pressure    []float64 `json:"pressure"`
	EnergyDrift float64   `json:"energy_drift"`
}

// ExportJSON writes a run result to path as indented JSON.
func ExportJSON(path, potentialFile, structureFile, thermostat string, dt float64, result *sim.Result) error {
	data := ExportData{
		Potential:   potentialFile,
		Structure:   structureFile,
		Thermostat:  thermostat,
		Dt:          dt,
		Steps:       result.StepsTaken,
		Times:       result.Times,
		PotentialE:  result.Potential,
		KineticE:    result.Kinetic,
		Temperature: result.Temperature,
		Pressure:    result.Pressure,
		EnergyDrift: result.EnergyDrift,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
