package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"
)

// Seeds the demo policy corpus through the document API. Going through the
// API instead of the DB matters: the upload queues ingestion on the server's
// in-process bus, so chunks and embeddings appear without a separate step.
// Re-running replaces each document by name and re-ingests it.

type seedDocument struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type createResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Id string `json:"id"`
	} `json:"data"`
}

func main() {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000/api/v1"
	}

	log.Println("Seeding Policy Document Corpus...")
	log.Printf("Target: %s", baseURL)

	client := &http.Client{Timeout: 30 * time.Second}

	for _, doc := range demoPolicies() {
		body, err := json.Marshal(doc)
		if err != nil {
			log.Fatalf("Error marshalling '%s': %v", doc.Name, err)
		}

		resp, err := client.Post(baseURL+"/documents", "application/json", bytes.NewBuffer(body))
		if err != nil {
			log.Fatalf("Error uploading '%s': %v (is the server running?)", doc.Name, err)
		}

		var res createResponse
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			resp.Body.Close()
			log.Fatalf("Error decoding response for '%s': %v", doc.Name, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK || !res.Success {
			log.Fatalf("Upload of '%s' failed: status %d, message: %s", doc.Name, resp.StatusCode, res.Message)
		}

		log.Printf("Uploaded: %s (id: %s, %d chars)", doc.Name, res.Data.Id, len(doc.Content))
	}

	log.Println("Policy seeding completed! Ingestion runs in the server, check /api/v1/documents for chunk counts.")
}

func demoPolicies() []seedDocument {
	return []seedDocument{
		{
			Name:    "Sunrise Auto Policy",
			Content: autoPolicyText(),
		},
		{
			Name:    "Sunrise Home Policy",
			Content: homePolicyText(),
		},
	}
}

func autoPolicyText() string {
	return `SUNRISE MUTUAL INSURANCE COMPANY
PERSONAL AUTO POLICY

Policy Number: SAC-2024-789456
Named Insured: Jordan Avery
Policy Period: January 1, 2024 to January 1, 2025
Vehicle: 2021 Honda Accord EX

Section 1: Liability Coverage
We will pay damages for bodily injury or property damage for which any
insured becomes legally responsible because of an auto accident. The limit
of liability is $100,000 per person and $300,000 per accident for bodily
injury, and $50,000 per accident for property damage. We will settle or
defend, as we consider appropriate, any claim or suit asking for these
damages. Our duty to settle or defend ends when our limit of liability for
this coverage has been exhausted by payment of judgments or settlements.

Section 2: Collision Coverage
We will pay for direct and accidental loss to your covered auto caused by
collision with another vehicle or object, or by upset of the vehicle. The
deductible for collision coverage is $500 per incident. Collision coverage
applies regardless of fault. If the loss is caused by a driver who is
legally at fault and insured elsewhere, we may recover our payment and
reimburse your deductible through subrogation.

Section 3: Comprehensive Coverage
We will pay for direct and accidental loss to your covered auto not caused
by collision, including loss caused by fire, theft, vandalism, falling
objects, hail, flood, and contact with an animal. The deductible for
comprehensive coverage is $250 per incident. Glass repair is covered with
no deductible when the glass is repaired rather than replaced.

Section 4: Exclusions
This policy does not cover loss arising from racing or speed contests, use
of the vehicle for fee-based delivery or ride sharing unless declared,
intentional damage caused by an insured, wear and tear, mechanical or
electrical breakdown, or driving under the influence of alcohol or drugs.

Section 5: Reporting a Claim
Report any accident or loss to us as soon as practicable. Provide the
policy number, the date, time and place of the incident, a description of
what happened, and the names and contact details of any other drivers,
passengers or witnesses. A claims adjuster will be assigned within one
business day of the first notice of loss. Emergency roadside assistance is
available around the clock under this policy.`
}

func homePolicyText() string {
	return `SUNRISE MUTUAL INSURANCE COMPANY
HOMEOWNERS POLICY

Policy Number: HOME-789012
Named Insured: Riley Donovan
Policy Period: March 15, 2024 to March 15, 2025
Insured Location: 44 Meadowbrook Lane

Section 1: Dwelling Coverage
We cover the dwelling on the insured location, including structures
attached to the dwelling and materials located on or next to the insured
location used to construct, alter or repair the dwelling. The limit of
liability for dwelling coverage is $450,000. Losses are settled at
replacement cost when the damaged building is repaired or replaced within
two years of the date of loss.

Section 2: Personal Property Coverage
We cover personal property owned or used by an insured anywhere in the
world, up to a limit of $225,000. Special sub-limits apply: $1,500 for
jewelry, watches and furs stolen from the residence, $2,500 for firearms,
and $2,500 for silverware. Personal property usually located at another
residence of an insured is covered up to 10 percent of this limit.

Section 3: Deductible
The deductible for all covered perils other than wind and hail is $1,000
per occurrence. The deductible for wind and hail losses is 1 percent of
the dwelling limit. We pay only that part of the covered loss over the
deductible that applies.

Section 4: Perils Insured Against and Exclusions
We insure against direct physical loss to covered property unless the loss
is excluded. Excluded perils include flood and surface water, earth
movement, neglect, intentional loss, ordinance or law enforcement beyond
stated limits, and damage caused by birds, vermin, rodents or insects.
Water damage from a sudden and accidental discharge of plumbing is
covered; seepage over a period of weeks or months is not.

Section 5: Duties After Loss and Claims
In case of a loss, give us prompt notice with the policy number and a
description of the damage, protect the property from further damage, and
keep a record of repair expenses. For theft losses, also notify the
police. A claims adjuster will contact you within one business day of the
first notice of loss to schedule an inspection and explain the settlement
process.`
}
