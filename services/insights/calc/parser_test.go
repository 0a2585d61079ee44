// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AcceptsGrammar(t *testing.T) {
	exprs := []string{
		"42",
		"4.25",
		"revenue",
		"revenue + cost",
		"revenue - cost * margin",
		"(revenue - cost) / revenue",
		"-revenue",
		"--revenue",
		"-(revenue + 1)",
		"_enriched_population / stores",
		"a + b + c + d",
		"  revenue\t/ stores ",
	}
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			assert.NoError(t, err)
		})
	}
}

func TestParse_RejectsOutsideGrammar(t *testing.T) {
	exprs := []string{
		"",
		"revenue +",
		"+ revenue",
		"revenue ++ cost",
		"(revenue",
		"revenue)",
		"()",
		"revenue; drop_everything()",
		"f(x)",
		"a > b",
		"a ** b",
		"1.2.3",
		"'revenue'",
		`"revenue"`,
		"a % b",
		"a = b",
	}
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			require.Error(t, err)
			var invalid *InvalidExpressionError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestParse_ErrorCarriesPosition(t *testing.T) {
	_, err := Parse("revenue; drop_everything()")
	require.Error(t, err)

	var invalid *InvalidExpressionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 7, invalid.Position)
	assert.Contains(t, invalid.Error(), "position 7")
}

func TestColumnRefs(t *testing.T) {
	root, err := Parse("(revenue - cost) / revenue + 100")
	require.NoError(t, err)
	assert.Equal(t, []string{"cost", "revenue"}, columnRefs(root))

	root, err = Parse("42 * 2")
	require.NoError(t, err)
	assert.Empty(t, columnRefs(root))
}
