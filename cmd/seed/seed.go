package main

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"obsdb/internal/astro"
)

type stationFile struct {
	Stations []station `yaml:"stations"`
}

type station struct {
	Name        string  `yaml:"name"`
	ID          int     `yaml:"id"`
	Longitude   float64 `yaml:"longitude"`
	Latitude    float64 `yaml:"latitude"`
	Altitude    float64 `yaml:"altitude"`
	Description string  `yaml:"description"`
}

type surveyFile struct {
	Name          string      `yaml:"name"`
	Description   string      `yaml:"description"`
	BeamsPerField int         `yaml:"beams_per_field"`
	FieldSize     float64     `yaml:"field_size"`
	Calibrators   []gridPoint `yaml:"calibrators"`
	Fields        []gridPoint `yaml:"fields"`
}

// gridPoint positions are strings so both "123.4" and "08:13:36.0" load.
type gridPoint struct {
	Name        string `yaml:"name"`
	RA          string `yaml:"ra"`
	Dec         string `yaml:"dec"`
	Description string `yaml:"description"`
}

// fieldRow is a grid point ready for insertion; positions in radians.
type fieldRow struct {
	Name        string
	Description string
	RA          float64
	Dec         float64
	Calibrator  bool
}

func decodeStations(r io.Reader) ([]station, error) {
	var f stationFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode stations: %w", err)
	}
	seen := map[string]bool{}
	for i, s := range f.Stations {
		if s.Name == "" {
			return nil, fmt.Errorf("station %d: name is required", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("station %s: duplicate name", s.Name)
		}
		seen[s.Name] = true
	}
	return f.Stations, nil
}

func decodeSurvey(r io.Reader) (surveyFile, []fieldRow, error) {
	var f surveyFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return surveyFile{}, nil, fmt.Errorf("decode survey: %w", err)
	}
	if f.Name == "" {
		return surveyFile{}, nil, errors.New("survey name is required")
	}
	if f.BeamsPerField <= 0 {
		f.BeamsPerField = 9
	}

	rows := make([]fieldRow, 0, len(f.Calibrators)+len(f.Fields))
	for _, group := range []struct {
		points     []gridPoint
		calibrator bool
	}{{f.Calibrators, true}, {f.Fields, false}} {
		for _, p := range group.points {
			row, err := p.row(group.calibrator)
			if err != nil {
				return surveyFile{}, nil, err
			}
			rows = append(rows, row)
		}
	}
	return f, rows, nil
}

func (p gridPoint) row(calibrator bool) (fieldRow, error) {
	if p.Name == "" {
		return fieldRow{}, errors.New("grid point without a name")
	}
	ra, err := astro.ParseRA(p.RA)
	if err != nil {
		return fieldRow{}, fmt.Errorf("field %s: %w", p.Name, err)
	}
	dec, err := astro.ParseDec(p.Dec)
	if err != nil {
		return fieldRow{}, fmt.Errorf("field %s: %w", p.Name, err)
	}
	return fieldRow{
		Name:        p.Name,
		Description: p.Description,
		RA:          ra,
		Dec:         dec,
		Calibrator:  calibrator,
	}, nil
}
