package service

import "github.com/Harshitk-cp/verity/internal/domain"

// categoryOrder fixes the presentation order of the seeded catalog.
var categoryOrder = []string{
	"Data protection & Privacy",
	"Pharmaceutical regulations",
	"ISO standards",
	"Environmental & Sustainability regulations",
}

// categoryCatalog maps category labels to the scope and default controls
// used to seed report queries. Callers may pass their own scope and
// controls instead; the pipeline does not own this data.
var categoryCatalog = map[string]domain.Category{
	"Data protection & Privacy": {
		Scope:       "GDPR",
		Description: "Scope: GDPR (data protection and privacy in the EU).",
		DefaultControls: "Control ID: DP-01\nControl Name: Data inventory and mapping\nDescription: Maintain a data inventory and perform data mapping for all personal data processing activities.\n\n" +
			"Control ID: DP-02\nControl Name: Data minimization and retention\nDescription: Apply data minimization and retention limits aligned with GDPR principles.\n\n" +
			"Control ID: DP-03\nControl Name: Access controls and encryption\nDescription: Limit access to personal data and apply encryption at rest and in transit.\n",
	},
	"Pharmaceutical regulations": {
		Scope:       "EMA, FDA, ICH guidelines, GMP guidelines, 21 CFR Part 11",
		Description: "Scope: EMA, FDA, ICH, GMP and 21 CFR Part 11 for pharmaceutical compliance.",
		DefaultControls: "Control ID: P-01\nControl Name: System validation\nDescription: Validate computerized systems used in manufacturing and clinical trials.\n\n" +
			"Control ID: P-02\nControl Name: Data integrity and ALCOA+\nDescription: Ensure data are attributable, legible, contemporaneous, original, accurate and plus (complete, consistent, enduring, available).\n\n" +
			"Control ID: P-03\nControl Name: Supply chain traceability\nDescription: Implement DSCSA/EU serialization and track-and-trace mechanisms where applicable.\n",
	},
	"ISO standards": {
		Scope:       "ISO 9001, ISO 14001, ISO 13485, ISO 17025",
		Description: "Scope: Key ISO standards for quality, environment, medical devices, and labs.",
		DefaultControls: "Control ID: I-01\nControl Name: Quality management system\nDescription: Maintain documented QMS aligning to ISO 9001 requirements.\n\n" +
			"Control ID: I-02\nControl Name: Environmental management\nDescription: Environmental objectives, monitoring and compliance processes per ISO 14001.\n\n" +
			"Control ID: I-03\nControl Name: Device quality controls\nDescription: Processes aligning to ISO 13485 for medical devices.\n",
	},
	"Environmental & Sustainability regulations": {
		Scope:       "REACH, EU chemical safety, global environmental laws",
		Description: "Scope: REACH, EU chemical safety, and global environmental and sustainability laws; includes waste management and emissions control.",
		DefaultControls: "Control ID: E-01\nControl Name: Chemical inventory and REACH compliance\nDescription: Maintain chemical inventories and ensure REACH registration/authorization where applicable.\n\n" +
			"Control ID: E-02\nControl Name: Emissions and waste controls\nDescription: Monitor emissions and waste streams and maintain compliance with national limits and permits.\n\n" +
			"Control ID: E-03\nControl Name: Environmental management & reporting\nDescription: Track sustainability KPIs and report per regulatory and company frameworks.\n",
	},
}

// CategoryNames returns the catalog labels in presentation order.
func CategoryNames() []string {
	return append([]string(nil), categoryOrder...)
}

// LookupCategory returns the catalog entry for a label.
func LookupCategory(name string) (domain.Category, bool) {
	c, ok := categoryCatalog[name]
	return c, ok
}
