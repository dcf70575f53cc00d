package ahp_test

import (
	"fmt"
	"strings"

	"github.com/soaringjerry/ahpsurvey/internal/ahp"
)

func ExampleCompute() {
	m := ahp.Matrix{
		{1, 3, 5},
		{1.0 / 3, 1, 2},
		{1.0 / 5, 1.0 / 2, 1},
	}
	res, err := ahp.Compute(m)
	if err != nil {
		fmt.Println(err)
		return
	}
	ws := make([]string, len(res.Weights))
	for i, w := range res.Weights {
		ws[i] = fmt.Sprintf("%.3f", w)
	}
	fmt.Println(strings.Join(ws, " "))
	fmt.Printf("lambdaMax=%.4f ci=%.4f cr=%.4f consistent=%v\n", res.LambdaMax, res.CI, res.CR, res.Consistent())
	// Output:
	// 0.648 0.230 0.122
	// lambdaMax=3.0037 ci=0.0018 cr=0.0032 consistent=true
}

func ExampleBuildMatrix() {
	m, err := ahp.BuildMatrix(3, map[ahp.Pair]float64{
		{I: 0, J: 1}: 3,
		{I: 1, J: 2}: 1.0 / 2,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, row := range m {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = ahp.FormatJudgment(v)
		}
		fmt.Println(strings.Join(cells, " "))
	}
	// Output:
	// 1 3 1
	// 1/3 1 1/2
	// 1 2 1
}
