// Command fdedupe-mktest materializes the deterministic fixture tree
// spec.md §8 describes under testdata/, for use as a manual fixture
// generator. It has no bearing on the production
// scan/list/remove flows; see SPEC_FULL.md §10.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

func writeFile(path string, content []byte) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		panic(err)
	}
}

func main() {
	root := "testdata"

	if err := os.RemoveAll(root); err != nil {
		panic(err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		panic(err)
	}

	// alpha/
	alpha := filepath.Join(root, "alpha")
	writeFile(filepath.Join(alpha, "hello.txt"), []byte("hello world\n"))
	writeFile(filepath.Join(alpha, "unique_a.txt"), []byte("unique content alpha\n"))

	alphaNested := filepath.Join(alpha, "nested")
	writeFile(filepath.Join(alphaNested, "hello_copy.txt"), []byte("hello world\n"))
	writeFile(filepath.Join(alphaNested, "unique_b.txt"), []byte("unique content beta\n"))

	// beta/
	beta := filepath.Join(root, "beta")
	writeFile(filepath.Join(beta, "hello_again.txt"), []byte("hello world\n"))
	writeFile(filepath.Join(beta, "unique_c.txt"), []byte("unique content gamma\n"))

	betaSubdir := filepath.Join(beta, "subdir")
	writeFile(filepath.Join(betaSubdir, "poem.txt"), []byte("roses are red\n"))
	writeFile(filepath.Join(betaSubdir, "unique_d.txt"), []byte("unique content delta\n"))

	// gamma/
	gamma := filepath.Join(root, "gamma")
	writeFile(filepath.Join(gamma, "poem_copy.txt"), []byte("roses are red\n"))

	if runtime.GOOS != "windows" {
		link := filepath.Join(gamma, "alpha_link")
		if err := os.Symlink(filepath.Join("..", "alpha"), link); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not create symlink: %v\n", err)
		}
	}

	// large/
	large := filepath.Join(root, "large")
	bigData := bytes.Repeat([]byte{0xAB}, 128*1024)
	writeFile(filepath.Join(large, "big.bin"), bigData)
	writeFile(filepath.Join(large, "big_copy.bin"), bigData)

	// hidden/
	hidden := filepath.Join(root, "hidden")
	writeFile(filepath.Join(hidden, ".hidden_dup.txt"), []byte("hello world\n"))
	writeFile(filepath.Join(hidden, "visible.txt"), []byte("visible only\n"))

	fmt.Println("Test data created under testdata/")
	fmt.Println()
	fmt.Println("Expected duplicate groups (without --hidden):")
	fmt.Println(`  "hello world\n"    3 files   12 bytes each`)
	fmt.Println(`  "roses are red\n"  2 files   15 bytes each`)
	fmt.Println("  128 KiB 0xAB block 2 files   131072 bytes each")
}
