// Command atlaspack packs sprite lists into texture atlas pages from the
// command line.
//
// Example:
//
//	atlaspack pack sprites.csv --page-width 2048 --page-height 2048 --json atlas.json
//	atlaspack estimate ./sprites/
//	atlaspack compare sprites.xlsx --format json
package main

func main() {
	execute()
}
