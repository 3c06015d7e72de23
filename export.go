package attdyn

import (
	"fmt"
	"os"
	"time"
)

// createCSVFile returns a file which requires a defer close statement!
func createCSVFile(filename string, conf ExportConfig, startEt float64) *os.File {
	config := attdynConfig()
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/states-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", config.outputDir, filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/states-%s.csv", config.outputDir, filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are epoch seconds past J2000 followed by each body's state vector.
# Rotational states are [q0 q1 q2 q3 w0 w1 w2], translational states [rx ry rz vx vy vz].
#   Simulation epoch start (UTC): %s`, time.Now(), TimeFromEpoch(startEt)))
	return f
}

// StreamStates streams the output of the channel to the configured CSV file.
func StreamStates(conf ExportConfig, stateChan <-chan (PropState)) {
	var f *os.File
	headerDone := false
	var lastEt float64
	for {
		state, more := <-stateChan
		if more {
			if !headerDone {
				f = createCSVFile(conf.Filename, conf, state.Et)
				hdr := "\net"
				for i, name := range state.Names {
					for j := range state.States[i] {
						hdr += fmt.Sprintf(",%s_%d", name, j)
					}
				}
				if conf.CSVAppendHdr != nil {
					hdr += "," + conf.CSVAppendHdr()
				}
				f.WriteString(hdr)
				headerDone = true
			}
			asTxt := fmt.Sprintf("%f", state.Et)
			for i := range state.States {
				for _, val := range state.States[i] {
					asTxt += fmt.Sprintf(",%.12e", val)
				}
			}
			if conf.CSVAppend != nil {
				asTxt += "," + conf.CSVAppend(state)
			}
			if _, err := f.WriteString("\n" + asTxt); err != nil {
				panic(err)
			}
			lastEt = state.Et
		} else {
			// The channel is closed, hence the simulation is over.
			if f != nil {
				f.WriteString(fmt.Sprintf("\n# Simulation epoch end (UTC): %s\n", TimeFromEpoch(lastEt)))
				f.Close()
			}
			break
		}
	}
}

// ExportConfig configures the exporting of the propagation.
type ExportConfig struct {
	Filename     string
	AsCSV        bool
	Timestamp    bool
	CSVAppend    func(st PropState) string // Custom export (do not include leading comma)
	CSVAppendHdr func() string             // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}
