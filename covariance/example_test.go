// SPDX-License-Identifier: MIT

package covariance_test

import (
	"fmt"

	"github.com/katalvlaran/lvcov/covariance"
	"github.com/katalvlaran/lvcov/rawshape"
)

func ExampleFromArray() {
	c, err := covariance.FromArray([][]float64{
		{1.0, 0.5, 0.2},
		{0.5, 1.0, 0.5},
		{0.2, 0.5, 1.0},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(c)
	fmt.Println("stored:", c.NNZ())
	fmt.Print(c.Dense())
	// Output:
	// <Covariance; shape = (3, 3)>
	// stored: 6
	// [1, 0.5, 0.2]
	// [0.5, 1, 0.5]
	// [0.2, 0.5, 1]
}

func ExampleCovariance_CovToRaw() {
	c, _ := covariance.FromVariance([]float64{1, 1, 1, 1, 1, 1}, covariance.WithRawShape(3, 2))
	coord, _ := c.CovToRaw(4)
	flat, _ := c.RawToCov(coord)
	fmt.Println(coord, flat)
	// Output:
	// [2 0] 4
}

func ExampleCovariance_SubMatrix() {
	rows := make([][]float64, 10)
	for i := range rows {
		rows[i] = make([]float64, 10)
		for j := range rows[i] {
			switch d := i - j; {
			case d == 0:
				rows[i][j] = 1
			case d == 1 || d == -1:
				rows[i][j] = 0.5
			case d == 2 || d == -2:
				rows[i][j] = 0.2
			}
		}
	}
	c, _ := covariance.FromArray(rows)
	sub, _ := c.SubMatrix(rawshape.Every(2))
	a, _ := sub.At(0, 1)
	b, _ := sub.At(0, 2)
	fmt.Println(sub, a, b)
	// Output:
	// <Covariance; shape = (5, 5)> 0.2 0
}

func ExampleCovariance_ToCorrelation() {
	c, _ := covariance.FromArray([][]float64{{4, 2}, {2, 9}})
	variance, rho, _ := c.ToCorrelation()
	r, _ := rho.At(0, 1)
	fmt.Printf("var=%v rho01=%.4f\n", variance, r)
	// Output:
	// var=[4 9] rho01=0.3333
}
