package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/AlHeloween/Fiasco/fiasco"
	"github.com/AlHeloween/Fiasco/fiasco/arith"
	"github.com/AlHeloween/Fiasco/fiasco/bitio"
)

func envUint(key string, def uint) uint {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err == nil {
			return uint(n)
		}
	}
	return def
}

func main() {
	// this is a crappy smoke test of the weight codec
	_ = godotenv.Load(".env")

	dcRpf, err := fiasco.NewRpf(envUint("FIASCO_DC_MANTISSA", 5), 1.0)
	if err != nil {
		log.Fatalln(err)
	}
	rpf, err := fiasco.NewRpf(envUint("FIASCO_MANTISSA", 3), 1.5)
	if err != nil {
		log.Fatalln(err)
	}
	models := &fiasco.Models{Rpf: rpf, DcRpf: dcRpf, DRpf: rpf, DDcRpf: dcRpf}

	// A tiny topology: three basis states and three range states
	// referencing them plus a DC term each.
	wfa := fiasco.NewWfa(6, 3)
	wfa.LevelOfState[3] = 3
	wfa.LevelOfState[4] = 3
	wfa.LevelOfState[5] = 4
	wfa.AddRange(3, 0, []int32{0, 1})
	wfa.AddRange(3, 1, []int32{2})
	wfa.AddRange(4, 0, []int32{0, 1, 2})
	wfa.AddRange(5, 1, []int32{0, 4})

	total := wfa.CountWeights()
	contexts, alphabets, err := fiasco.WeightContexts(models, total, wfa)
	if err != nil {
		log.Fatalln(err)
	}

	// Make up a weight per edge and entropy code the lot the way an
	// encoder would.
	codes := make([]int, 0, total)
	for state := wfa.BasisStates; state < wfa.States; state++ {
		for label := 0; label < fiasco.MaxLabels; label++ {
			if !wfa.Ranges[state][label].IsRange {
				continue
			}
			for edge, domain := range wfa.Ranges[state][label].Domains {
				w := 0.3*float64(edge+1) - 0.2*float64(label)
				if domain == 0 {
					codes = append(codes, dcRpf.Quantize(w))
				} else {
					codes = append(codes, rpf.Quantize(w))
				}
			}
		}
	}

	out := bitio.NewWriter()
	err = arith.EncodeArray(out, codes, contexts, alphabets, len(alphabets), fiasco.WeightScaling)
	if err != nil {
		log.Fatalln(err)
	}
	payload := out.Bytes()

	dec, err := fiasco.NewDecoder(models)
	if err != nil {
		log.Fatalln(err)
	}
	if os.Getenv("FIASCO_TRACE") != "" {
		dec.OnWeight(func(state, label, edge int, domain int32, weight float64) {
			fmt.Fprintf(os.Stderr, "state=%d label=%d edge=%d domain=%d weight=%.6f\n",
				state, label, edge, domain, weight)
		})
	}

	err = dec.ReadWeights(total, wfa, bitio.NewReader(payload))
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Printf("payload = %d bytes, weights = %d, contexts = %d\n", len(payload), total, len(alphabets))
	for state := wfa.BasisStates; state < wfa.States; state++ {
		for label := 0; label < fiasco.MaxLabels; label++ {
			r := &wfa.Ranges[state][label]
			if !r.IsRange {
				continue
			}
			for edge := range r.Domains {
				fmt.Printf("  (%d,%d,%d) -> %d: weight=%+.6f int=%d\n",
					state, label, edge, r.Domains[edge], r.Weights[edge], r.IntWeights[edge])
			}
		}
	}
}
