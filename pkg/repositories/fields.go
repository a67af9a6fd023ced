// Package repositories provides typed access to the three record collections,
// translating between domain models and the store's display-named columns.
package repositories

// Tables names the three collections inside the record base.
type Tables struct {
	Pages         string
	Centres       string
	Discrepancies string
}

// DefaultTables returns the collection names of the production base.
func DefaultTables() Tables {
	return Tables{
		Pages:         "Client Web Pages",
		Centres:       "Centres",
		Discrepancies: "Discrepancy Notes",
	}
}

// Column names in the record base. The base predates this engine, so the
// columns keep their original display names, including the Italian ones.
const (
	// Client Web Pages
	fieldClientName      = "Client Name"
	fieldWebPageURL      = "Web Page URL"
	fieldPageCentres     = "Centres"
	fieldLastCheckedDate = "Last Checked Date"
	fieldTranscription   = "Trascrizione Testo"
	fieldReviewStatus    = "Stato Revisione"

	// Centres
	fieldCentreName    = "Product or Service Name"
	fieldReferencePage = "Reference Page"
	fieldFactsCache    = "Official Facts Cache"
	fieldPrice         = "Price"
	fieldActive        = "Active"

	// Discrepancy Notes
	fieldDiscrepancyName = "Name"
	fieldDescription     = "Discrepancy Description"
	fieldSeverity        = "Severity Level"
	fieldPageLink        = "Client Web Page"
	fieldCentreLink      = "Centre"
	fieldResolved        = "Resolved"
	fieldResolutionNotes = "Resolution Notes"
	fieldDateDetected    = "Date Detected"
)
