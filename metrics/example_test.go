package metrics_test

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/metrics"
)

// ExampleAccuracy demonstrates accuracy over class indices
func ExampleAccuracy() {
	yTrue := mat.NewVecDense(5, []float64{0, 1, 2, 1, 0})
	yPred := mat.NewVecDense(5, []float64{0, 1, 1, 1, 0})

	acc, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		slog.Error("Test failed", "error", err)
		return
	}

	fmt.Printf("Accuracy: %.2f\n", acc)

	// Output: Accuracy: 0.80
}

// ExampleClassificationError demonstrates the misclassification rate
func ExampleClassificationError() {
	yTrue := mat.NewVecDense(4, []float64{0, 0, 1, 1})
	yPred := mat.NewVecDense(4, []float64{0, 1, 1, 0})

	rate, err := metrics.ClassificationError(yTrue, yPred)
	if err != nil {
		slog.Error("Test failed", "error", err)
		return
	}

	fmt.Printf("Error Rate: %.2f\n", rate)

	// Output: Error Rate: 0.50
}

// ExampleClassificationReport demonstrates per-class scores with class names
func ExampleClassificationReport() {
	yTrue := mat.NewVecDense(5, []float64{0, 0, 1, 1, 2})
	yPred := mat.NewVecDense(5, []float64{0, 1, 1, 1, 2})

	report, err := metrics.ClassificationReport(yTrue, yPred, []string{"acc", "good", "unacc"})
	if err != nil {
		slog.Error("Test failed", "error", err)
		return
	}

	for _, c := range report.Classes {
		fmt.Printf("%s: precision=%.2f recall=%.2f f1=%.2f support=%d\n",
			c.Name, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Printf("macro f1=%.2f weighted f1=%.2f\n", report.MacroAvg.F1, report.WeightedAvg.F1)

	// Output:
	// acc: precision=1.00 recall=0.50 f1=0.67 support=2
	// good: precision=0.67 recall=1.00 f1=0.80 support=2
	// unacc: precision=1.00 recall=1.00 f1=1.00 support=1
	// macro f1=0.82 weighted f1=0.79
}
