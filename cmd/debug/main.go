package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/assistant/parser"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/utils"
)

// Offline probe for the ingestion and extraction plumbing. Feeds a document
// through the same splitter the embed consumer uses, prints every chunk with
// its derived key, page and section, then runs the policy number extractor
// over a handful of user phrasings. No DB, no LLM, no server needed.

const chunkSize = 1500
const chunkOverlap = 200

func main() {
	text := samplePolicy
	documentName := "Sample Auto Policy"

	// Optional: pass a file to trace a real document instead
	if len(os.Args) > 1 {
		raw, err := os.ReadFile(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to read %s: %v", os.Args[1], err)
		}
		text = string(raw)
		documentName = os.Args[1]
	}

	fmt.Println("--- CHUNKING TRACE ---")
	fmt.Printf("Document: %s\n", documentName)
	fmt.Printf("Total Length: %d chars (chunk size %d, overlap %d)\n", len(text), chunkSize, chunkOverlap)

	chunks := utils.SplitText(text, chunkSize, chunkOverlap)
	fmt.Printf("Produced %d chunks.\n", len(chunks))
	fmt.Println("--------------------------------")

	keyPrefix := strings.ReplaceAll(strings.TrimSpace(documentName), " ", "_")
	batchStamp := time.Now().Unix()

	for i, chunkText := range chunks {
		chunkKey := fmt.Sprintf("%s_%d_chunk_%04d", keyPrefix, batchStamp, i)
		section, subsection := parser.ExtractSectionInfo(chunkText)
		page := parser.ParsePageNumber(chunkKey, chunkText)

		fmt.Printf("[Chunk %d] Key: %s\n", i, chunkKey)
		fmt.Printf("  Length: %d chars, Page: %s\n", len(chunkText), page)
		if section != "" {
			fmt.Printf("  Section: %s", section)
			if subsection != "" {
				fmt.Printf(" / %s", subsection)
			}
			fmt.Println()
		}
		fmt.Printf("  Preview: %s...\n", preview(chunkText, 60))
		fmt.Printf("  Recovered name: %q\n", parser.ExtractDocumentName(chunkKey))
	}
	fmt.Println("--------------------------------")

	fmt.Println("--- POLICY NUMBER EXTRACTION ---")
	queries := []string{
		"My policy number is SAC-2024-789456",
		"compare HOME-789012 and SAC-2024-789456 deductibles",
		"policy no POL123456789",
		"I was in a car accident yesterday",
		"what does my policy cover",
		"AUTO 2023 55512",
	}
	for _, q := range queries {
		found := parser.CombinedExtract(q)
		fmt.Printf("Query: %q\n  Found: %v\n", q, found)
	}
	fmt.Println("--------------------------------")
}

func preview(s string, n int) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n]
}

const samplePolicy = `SUNRISE MUTUAL INSURANCE COMPANY
PERSONAL AUTO POLICY

Policy Number: SAC-2024-789456

Section 1: Liability Coverage
We will pay damages for bodily injury or property damage for which any
insured becomes legally responsible because of an auto accident. The limit
of liability is $100,000 per person and $300,000 per accident for bodily
injury, and $50,000 per accident for property damage.

Section 2: Collision Coverage
We will pay for direct and accidental loss to your covered auto caused by
collision with another vehicle or object. The deductible for collision
coverage is $500 per incident. Collision coverage applies regardless of
fault.

Section 3: Comprehensive Coverage
We will pay for direct and accidental loss to your covered auto not caused
by collision, including loss caused by fire, theft, vandalism, falling
objects, hail, flood, and contact with an animal. The deductible for
comprehensive coverage is $250 per incident.

Section 4: Exclusions
This policy does not cover loss arising from racing or speed contests, use
of the vehicle for fee-based delivery unless declared, intentional damage
caused by an insured, wear and tear, or mechanical breakdown.

Section 5: Reporting a Claim
Report any accident or loss to us as soon as practicable. Provide the
policy number, the date, time and place of the incident, a description of
what happened, and the names and contact details of any other drivers,
passengers or witnesses. A claims adjuster will be assigned within one
business day of the first notice of loss.`
