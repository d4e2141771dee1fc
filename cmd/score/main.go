// Command score reads one health record as JSON from a file or stdin and
// prints its stroke risk assessment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/paramveeRana/brainstroke3/internal/application/services"
	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/scoring"
)

func main() {
	showFactors := flag.Bool("factors", false, "print the risk factor table instead of scoring")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: score [-factors] [record.json]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	engine := scoring.Default()

	if *showFactors {
		printJSON(engine.Table())
		return
	}

	in := io.Reader(os.Stdin)
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("Failed to open record: %v", err)
		}
		defer f.Close()
		in = f
	}

	var record entities.HealthRecord
	if err := json.NewDecoder(in).Decode(&record); err != nil {
		log.Fatalf("Failed to parse record: %v", err)
	}

	record, err := services.ValidateHealthRecord(record)
	if err != nil {
		log.Fatalf("Invalid record: %v", err)
	}

	result, err := engine.Calculate(record)
	if err != nil {
		log.Fatalf("Scoring failed: %v", err)
	}
	printJSON(result)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
	fmt.Println(string(out))
}
