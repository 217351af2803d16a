// Package testing provides a component testing harness for drift-tui.
//
// # Quick Start
//
// Create a tester, pump an element, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := tuitest.NewTesterWithT(t)
//	    if err := tester.PumpElement(Counter.New(CounterProps{})); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    // Send input through the event bus
//	    tester.SendRune('+')
//
//	    // Assert on the screen or the mounted tree
//	    if !tester.Find(tuitest.ByText("count: 1")).Exists() {
//	        t.Errorf("screen:\n%s", tester.ScreenText())
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare the mounted tree and screen as YAML:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.yaml")
//
// Update snapshots with:
//
//	DRIFT_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Background Work
//
// Hooks such as UseTask set state from other goroutines. PumpUntil keeps
// pumping until a condition holds:
//
//	err := tester.PumpUntil(func() bool {
//	    return tester.Find(tuitest.ByText("loaded")).Exists()
//	}, time.Second)
package testing
