// Command carprep turns the car acceptability train and test CSV files into
// numeric arrays and persists the fitted preprocessor.
//
//	carprep transform --train data/train.csv --test data/test.csv --export-dir out
//	carprep inspect artifact/preprocessor.pkl
//	carprep evaluate --test data/test.csv --predictions preds.csv --plot f1.png
package main

import (
	"os"

	"github.com/ezoic/carprep/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.LogError(err, "carprep failed")
		os.Exit(1)
	}
}
