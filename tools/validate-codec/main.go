// Validate-codec replays captured console traffic through the frame
// decoder.
//
// Input files are hex dumps of raw TCP stream bytes, for example from
// Wireshark's "copy as hex stream" or from UCREMOTE_LOG_LEVEL=debug
// output. Whitespace is ignored and lines starting with '#' are
// comments, so annotated captures decode as-is. Pass '-' to read from
// stdin.
//
// The tool decodes frame after frame, prints a one-line summary per
// packet, and finishes with success/failure statistics. A capture that
// decodes completely with no leftover bytes is the pass condition.
//
// Usage:
//
//	go run ./tools/validate-codec capture1.hex capture2.hex
//	wireshark-export | go run ./tools/validate-codec -
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/feathernet/ucremote/internal/protocol"
	"github.com/feathernet/ucremote/internal/urls"
)

// Statistics tracks decoding results across all input files
type Statistics struct {
	TotalFiles    int
	TotalBytes    int
	FramesDecoded int
	Compressed    int
	Failures      []FailedDecode
	LeftoverBytes int
	Kinds         map[protocol.Kind]int
	PayloadSizes  map[int]int
}

// FailedDecode stores information about a decode failure
type FailedDecode struct {
	File   string
	Offset int
	Error  string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate-codec <hex-dump-file> [more files...]")
		fmt.Println("       validate-codec -          (read hex from stdin)")
		fmt.Println()
		fmt.Println("Input is hex text of the raw TCP stream; whitespace is")
		fmt.Println("ignored and '#' starts a comment line.")
		fmt.Println()
		fmt.Printf("Wire format notes: %s\n", urls.ProtocolNotes)
		os.Exit(1)
	}

	stats := Statistics{
		Kinds:        make(map[protocol.Kind]int),
		PayloadSizes: make(map[int]int),
	}

	for _, path := range os.Args[1:] {
		processFile(path, &stats)
	}

	printStatistics(&stats)

	if len(stats.Failures) > 0 {
		os.Exit(1)
	}
}

func processFile(path string, stats *Statistics) {
	stats.TotalFiles++

	data, err := readHexDump(path)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", path, err)
		stats.Failures = append(stats.Failures, FailedDecode{
			File:  path,
			Error: err.Error(),
		})
		return
	}
	stats.TotalBytes += len(data)

	fmt.Printf("--- %s (%d bytes) ---\n", displayName(path), len(data))

	offset := 0
	for {
		pkt, n, err := protocol.Decode(data[offset:])
		if err != nil {
			// Framing is lost from here on, no point scanning further
			stats.Failures = append(stats.Failures, FailedDecode{
				File:   path,
				Offset: offset,
				Error:  err.Error(),
			})
			fmt.Printf("  DECODE FAILED at offset %d: %v\n", offset, err)
			return
		}
		if pkt == nil {
			break
		}

		stats.FramesDecoded++
		stats.Kinds[pkt.Kind()]++
		if pkt.Compressed {
			stats.Compressed++
		}
		stats.PayloadSizes[n-protocol.HeaderLen]++

		tag := ""
		if pkt.Compressed {
			tag = " [deflate]"
		}
		fmt.Printf("  %4d  @%-7d %s%s\n", stats.FramesDecoded, offset, protocol.Describe(pkt), tag)

		offset += n
	}

	if leftover := len(data) - offset; leftover > 0 {
		stats.LeftoverBytes += leftover
		fmt.Printf("  WARNING: %d trailing bytes do not form a complete frame\n", leftover)
	}
}

// readHexDump loads a file (or stdin for "-") and decodes its hex text.
func readHexDump(path string) ([]byte, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sb.WriteString(strings.Join(strings.Fields(line), ""))
	}

	data, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

func printStatistics(stats *Statistics) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("VALIDATION RESULTS\n")
	fmt.Printf("========================================\n\n")

	fmt.Printf("Files Processed:    %d\n", stats.TotalFiles)
	fmt.Printf("Stream Bytes:       %d\n", stats.TotalBytes)
	fmt.Printf("Frames Decoded:     %d\n", stats.FramesDecoded)
	if stats.FramesDecoded > 0 {
		fmt.Printf("Compressed:         %d (%.2f%%)\n", stats.Compressed,
			float64(stats.Compressed)/float64(stats.FramesDecoded)*100)
	}
	fmt.Printf("Decode Failures:    %d\n", len(stats.Failures))
	fmt.Printf("Leftover Bytes:     %d\n", stats.LeftoverBytes)

	if stats.FramesDecoded > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("PACKET KIND DISTRIBUTION\n")
		fmt.Printf("----------------------------------------\n")
		kinds := make([]protocol.Kind, 0, len(stats.Kinds))
		for k := range stats.Kinds {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool { return stats.Kinds[kinds[i]] > stats.Kinds[kinds[j]] })
		for _, k := range kinds {
			count := stats.Kinds[k]
			fmt.Printf("%-18s %6d (%.2f%%)\n", k.String(), count,
				float64(count)/float64(stats.FramesDecoded)*100)
		}

		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("PAYLOAD SIZE DISTRIBUTION\n")
		fmt.Printf("----------------------------------------\n")
		sizes := make([]int, 0, len(stats.PayloadSizes))
		for size := range stats.PayloadSizes {
			sizes = append(sizes, size)
		}
		sort.Ints(sizes)
		for _, size := range sizes {
			fmt.Printf("%7d bytes: %d\n", size, stats.PayloadSizes[size])
		}
	}

	if len(stats.Failures) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("FAILURES\n")
		fmt.Printf("----------------------------------------\n")
		for _, f := range stats.Failures {
			fmt.Printf("%s @%d: %s\n", displayName(f.File), f.Offset, f.Error)
		}
		fmt.Printf("\nFailing captures are worth a report: %s\n", urls.ContributingCaptures)
		fmt.Printf("\nRESULT: FAIL\n")
		return
	}

	fmt.Printf("\nRESULT: PASS\n")
}
