// Package harness provides conformance testing for the dich_univ kernel.
//
// The harness loads a dataset, builds the model, evaluates the log density
// at listed points and checks the results, writing each constrained draw to
// a private in-memory store as a real caller would.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	data:                      # or data_file: ../data/example.json
//	  Z: 3
//	  N: [10, 10, 10]
//	  Y: [5, 7, 2]
//	  X: [0.0, 1.0, -1.0]
//	inits:
//	  values: { alpha: 0.25, beta: -1 }
//	  theta: [0.25, -1]
//	evaluations:
//	  - theta: [0, 0]
//	    propto: true
//	    jacobian: true
//	    expect:
//	      log_density: -20.794415417
//	      gradient: [-1, 5]
//	      draw: { alpha: 0, beta: 0 }
//	  - theta: [0]
//	    expect:
//	      error: DIMENSION_MISMATCH
//
// A scenario whose data must be rejected sets expect_error to the error code
// instead of listing evaluations.
//
// # Deterministic Testing
//
// The harness uses:
//   - Fixed run IDs (testutil.FixedRunIDGenerator with prefix "golden")
//   - Draw seq equal to the evaluation's 1-based position
//   - In-memory SQLite database (isolated per scenario)
//   - Numbers in snapshots rounded to a fixed number of decimals
//
// This ensures identical snapshots across runs for golden file comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/example.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
