// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package chart builds renderable chart configurations from query results.
package chart

import (
	"fmt"

	"github.com/AleutianAI/AleutianInsights/services/insights/datatypes"
	"github.com/AleutianAI/AleutianInsights/services/insights/view"
)

// Type enumerates the supported chart types.
type Type string

const (
	TypeTable Type = "table"
	TypeBar   Type = "bar"
	TypeLine  Type = "line"
	TypePie   Type = "pie"
	TypeArea  Type = "area"
)

// Valid reports whether t is a supported chart type.
func (t Type) Valid() bool {
	switch t {
	case TypeTable, TypeBar, TypeLine, TypePie, TypeArea:
		return true
	}
	return false
}

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Point is one labeled value in a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is one named sequence of points.
type Series struct {
	Name  string  `json:"name"`
	Data  []Point `json:"data"`
	Color string  `json:"color,omitempty"`
}

// Config is a renderable chart description.
type Config struct {
	ChartType  Type     `json:"chart_type"`
	Title      string   `json:"title,omitempty"`
	XAxis      string   `json:"x_axis,omitempty"`
	YAxis      string   `json:"y_axis,omitempty"`
	Series     []Series `json:"series"`
	Colors     []string `json:"colors"`
	ShowLegend bool     `json:"show_legend"`
	ShowGrid   bool     `json:"show_grid"`
}

// Build produces a chart config from a result. Labels come from xColumn's
// display projection and one series is built per y column from the numeric
// projection. Rows whose y cell has no numeric reading are skipped in that
// series rather than plotted as zero.
func Build(result *datatypes.QueryResult, typ Type, xColumn string, yColumns []string, title string) (*Config, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChartType, typ)
	}
	if !result.HasColumn(xColumn) {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, xColumn)
	}
	for _, y := range yColumns {
		if !result.HasColumn(y) {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, y)
		}
	}
	if len(yColumns) == 0 {
		return nil, ErrNoSeries
	}

	cfg := &Config{
		ChartType:  typ,
		Title:      title,
		XAxis:      xColumn,
		YAxis:      yColumns[0],
		ShowLegend: true,
		ShowGrid:   typ != TypePie,
	}

	for _, y := range yColumns {
		points := make([]Point, 0, len(result.Rows))
		for _, row := range result.Rows {
			num := view.Numeric(row[y])
			if num == nil {
				continue
			}
			points = append(points, Point{
				Label: view.Display(row[xColumn]),
				Value: *num,
			})
		}
		cfg.Series = append(cfg.Series, Series{Name: y, Data: points})
	}

	cfg.Colors = assignColors(len(cfg.Series))
	for i := range cfg.Series {
		cfg.Series[i].Color = cfg.Colors[i]
	}
	return cfg, nil
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
