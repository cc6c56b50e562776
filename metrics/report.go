package metrics

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	carpErrors "github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/pkg/log"
)

// ClassMetrics holds the scores of one class or one average row.
type ClassMetrics struct {
	Label     float64
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is a per-class precision/recall/F1 summary.
type Report struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
	Support     int
}

// Predictor is any fitted model producing one label per row of X.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// ClassificationReport computes per-class precision, recall, F1 and support.
//
// With classNames, labels are the class indices 0..len(classNames)-1 and every
// class gets a row, observed or not. Without them, labels are the sorted
// distinct values of yTrue and yPred, named by their value. Precision or
// recall with a zero denominator is reported as 0.
func ClassificationReport(yTrue, yPred *mat.VecDense, classNames []string) (*Report, error) {
	const op = "ClassificationReport"
	n, err := checkPair(op, yTrue, yPred)
	if err != nil {
		return nil, err
	}

	labels, names, err := reportLabels(op, yTrue, yPred, n, classNames)
	if err != nil {
		return nil, err
	}
	pos := make(map[float64]int, len(labels))
	for k, l := range labels {
		pos[l] = k
	}

	tp := make([]int, len(labels))
	predicted := make([]int, len(labels))
	support := make([]int, len(labels))
	correct := 0
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		support[pos[t]]++
		predicted[pos[p]]++
		if t == p {
			tp[pos[t]]++
			correct++
		}
	}

	r := &Report{
		Classes:  make([]ClassMetrics, len(labels)),
		Accuracy: float64(correct) / float64(n),
		Support:  n,
	}
	r.MacroAvg = ClassMetrics{Name: "macro avg", Support: n}
	r.WeightedAvg = ClassMetrics{Name: "weighted avg", Support: n}

	for k := range labels {
		c := ClassMetrics{
			Label:     labels[k],
			Name:      names[k],
			Precision: ratio(tp[k], predicted[k]),
			Recall:    ratio(tp[k], support[k]),
			Support:   support[k],
		}
		if c.Precision+c.Recall > 0 {
			c.F1 = 2 * c.Precision * c.Recall / (c.Precision + c.Recall)
		}
		r.Classes[k] = c

		w := float64(c.Support) / float64(n)
		r.MacroAvg.Precision += c.Precision
		r.MacroAvg.Recall += c.Recall
		r.MacroAvg.F1 += c.F1
		r.WeightedAvg.Precision += w * c.Precision
		r.WeightedAvg.Recall += w * c.Recall
		r.WeightedAvg.F1 += w * c.F1
	}

	k := float64(len(labels))
	r.MacroAvg.Precision /= k
	r.MacroAvg.Recall /= k
	r.MacroAvg.F1 /= k

	return r, nil
}

func reportLabels(op string, yTrue, yPred *mat.VecDense, n int, classNames []string) ([]float64, []string, error) {
	if len(classNames) > 0 {
		labels := make([]float64, len(classNames))
		for k := range labels {
			labels[k] = float64(k)
		}
		for _, y := range []*mat.VecDense{yTrue, yPred} {
			for i := 0; i < n; i++ {
				v := y.AtVec(i)
				if v != math.Trunc(v) || v < 0 || int(v) >= len(classNames) {
					return nil, nil, carpErrors.NewValueError(op,
						fmt.Sprintf("label %g is not a class index below %d", v, len(classNames)))
				}
			}
		}
		return labels, append([]string(nil), classNames...), nil
	}

	seen := make(map[float64]bool)
	for _, y := range []*mat.VecDense{yTrue, yPred} {
		for i := 0; i < n; i++ {
			v := y.AtVec(i)
			if math.IsNaN(v) {
				return nil, nil, carpErrors.NewValueError(op, "labels cannot be NaN")
			}
			seen[v] = true
		}
	}
	labels := make([]float64, 0, len(seen))
	for v := range seen {
		labels = append(labels, v)
	}
	sort.Float64s(labels)

	names := make([]string, len(labels))
	for k, l := range labels {
		names[k] = fmt.Sprintf("%g", l)
	}
	return labels, names, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// String renders the report as a fixed-width text table with two decimals.
func (r *Report) String() string {
	width := len(r.WeightedAvg.Name)
	for _, c := range r.Classes {
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	row := func(c ClassMetrics) {
		fmt.Fprintf(&b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, c.Name, c.Precision, c.Recall, c.F1, c.Support)
	}
	for _, c := range r.Classes {
		row(c)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Support)
	row(r.MacroAvg)
	row(r.WeightedAvg)
	return b.String()
}

// Evaluate predicts X with model, prints the accuracy and the classification
// report to w and returns the report.
//
// Example:
//
//	_, test, _, _ := dt.InitiateDataTransformation(trainPath, testPath)
//	X, y, _ := transformation.SplitFeaturesTarget(test)
//	report, err := metrics.Evaluate(clf, X, y, pre.Target.Classes, os.Stdout)
func Evaluate(model Predictor, X mat.Matrix, yTrue *mat.VecDense, classNames []string, w io.Writer) (*Report, error) {
	const op = "Evaluate"
	if model == nil || X == nil || yTrue == nil {
		return nil, carpErrors.NewValueError(op, "model, X and yTrue are required")
	}

	pred, err := model.Predict(X)
	if err != nil {
		return nil, carpErrors.Wrap(err, "Evaluate: prediction failed")
	}
	yPred, err := asVector(op, pred, yTrue.Len())
	if err != nil {
		return nil, err
	}

	report, err := ClassificationReport(yTrue, yPred, classNames)
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintf(w, "Accuracy: %v\nClassification Report:\n%s", report.Accuracy, report); err != nil {
		return nil, carpErrors.NewIOError(op, "<writer>", err)
	}

	log.GetLoggerWithName("metrics").Info("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseEvaluation,
		log.SamplesKey, report.Support,
		"accuracy", report.Accuracy,
	)
	return report, nil
}

// asVector flattens an n x 1 (or 1 x n) prediction matrix.
func asVector(op string, m mat.Matrix, n int) (*mat.VecDense, error) {
	if v, ok := m.(*mat.VecDense); ok {
		if v.Len() != n {
			return nil, carpErrors.NewDimensionError(op, n, v.Len(), 0)
		}
		return v, nil
	}

	r, c := m.Dims()
	switch {
	case c == 1 && r == n:
		return mat.NewVecDense(n, mat.Col(nil, 0, m)), nil
	case r == 1 && c == n:
		return mat.NewVecDense(n, mat.Row(nil, 0, m)), nil
	case c != 1:
		return nil, carpErrors.NewDimensionError(op, 1, c, 1)
	default:
		return nil, carpErrors.NewDimensionError(op, n, r, 0)
	}
}
