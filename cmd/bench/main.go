package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/docbridge"
	"github.com/aretw0/docbridge/pkg/adapters/fs"
)

func main() {
	peers := flag.Int("peers", 8, "Number of peers editing concurrently")
	edits := flag.Int("edits", 500, "Inserts per peer")
	keep := flag.Bool("keep", false, "Keep the exported files after running")
	flag.Parse()

	// 1. Setup store
	benchDir, err := os.MkdirTemp("", "docbridge_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	rt := docbridge.New(docbridge.WithLogger(logger))
	store := fs.NewStore(fs.Config{Dir: benchDir, Logger: logger})

	// 2. Every peer edits its own replica and exports updates
	fmt.Printf("Editing %d peers x %d inserts...\n", *peers, *edits)
	startEdit := time.Now()
	var total int
	for p := 1; p <= *peers; p++ {
		d := rt.Managed.NewDoc()
		if err := d.SetPeerID(uint64(p)); err != nil {
			panic(err)
		}
		txt, err := d.Text("text")
		if err != nil {
			panic(err)
		}
		for i := 0; i < *edits; i++ {
			if err := txt.Insert(rand.IntN(txt.Len()+1), "x"); err != nil {
				panic(err)
			}
		}
		data, err := d.ExportUpdates()
		if err != nil {
			panic(err)
		}
		total += len(data)
		if err := store.Save(fmt.Sprintf("peer-%d", p), data); err != nil {
			panic(err)
		}
		txt.Release()
		d.Release()
	}
	editDuration := time.Since(startEdit)

	// 3. Merge all exports in a random order, twice
	names, err := store.List("peer-*")
	if err != nil {
		panic(err)
	}
	merge := func() (time.Duration, string) {
		rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
		d := rt.Managed.NewDoc()
		defer d.Release()

		start := time.Now()
		for _, n := range names {
			data, err := os.ReadFile(filepath.Join(benchDir, n+fs.Ext))
			if err != nil {
				panic(err)
			}
			if err := d.Import(data); err != nil {
				panic(err)
			}
		}
		elapsed := time.Since(start)

		txt, err := d.Text("text")
		if err != nil {
			panic(err)
		}
		defer txt.Release()
		return elapsed, txt.String()
	}

	first, a := merge()
	second, b := merge()

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d peers, %d bytes exported):\n", *peers, total)
	fmt.Printf("  Edit+Export: %v\n", editDuration)
	fmt.Printf("  Merge #1:    %v\n", first)
	fmt.Printf("  Merge #2:    %v\n", second)
	fmt.Printf("  Converged:   %v (len %d)\n", a == b, len(a))
	fmt.Printf("--------------------------------------------------\n")
}
