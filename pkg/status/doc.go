/*
Package status tracks the inputs of a batch run and writes fixed outputs.

	            +-------------+
	            |   Manager   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+------+
	|  Inputs   |           |  Output   |
	| (Tracker) |           | (Atomic)  |
	+-----------+           +-----------+

🎯 Purpose:
  - Tracks each input file (pending, clean, changed, failed)
  - Reports progress across many inputs
  - Writes fixed exports atomically, with an optional backup

🤝 Interfaces:
  - Formatter: formats input, rule and progress lines
  - Manager: tracks inputs and owns output files
*/
package status
