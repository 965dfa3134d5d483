// Package viz renders root-finding traces in the terminal.
//
//   - [Table]: the k / x / f(x) / rel err table with a termination banner
//   - [ConvergencePlot], [FunctionPlot]: asciigraph charts
//   - [StepModel]: Bubble Tea program that advances one update per key press
//
// # Key Bindings
//
//	Space, N  - Perform one update
//	R         - Run to termination
//	Backspace - Restart from the initial guess
//	Q         - Quit
package viz
