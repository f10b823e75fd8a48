package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dm-vev/voxeltick/server/world/mcdb"
)

func main() {
	dir := flag.String("world", "world", "folder of the world to inspect")
	filter := flag.String("filter", "", "only print tiles and entities whose id contains this string")
	flag.Parse()

	db, err := mcdb.Config{ReadOnly: true}.Open(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer db.Close()

	columns, err := db.LoadColumns()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("%d columns\n", len(columns))

	tiles, err := db.LoadTiles()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, t := range tiles {
		if id, _ := t["id"].(string); strings.Contains(id, *filter) {
			fmt.Printf("tile %s at (%v, %v, %v) => %+v\n", id, t["x"], t["y"], t["z"], t)
		}
	}

	entities, err := db.LoadEntities()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, e := range entities {
		if id, _ := e["identifier"].(string); strings.Contains(id, *filter) {
			fmt.Printf("entity %s => %+v\n", id, e)
		}
	}
}
