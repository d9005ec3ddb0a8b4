// internal/writers/tsv.go
package writers

import (
	"bufio"
	"io"
	"strings"
)

func init() { RegisterStream("tsv", WriteTSV) }

// WriteTSV writes every section as a header line followed by one line per
// row. With more than one section each block is preceded by "# <name>".
func WriteTSV(w io.Writer, sections []Section) error {
	bw := bufio.NewWriter(w)
	for _, s := range sections {
		if len(sections) > 1 {
			if _, err := bw.WriteString("# " + s.Name + "\n"); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(strings.Join(s.Rows.Header(), "\t") + "\n"); err != nil {
			return err
		}
		for i := 0; i < s.Rows.Len(); i++ {
			if _, err := bw.WriteString(strings.Join(s.Rows.Cells(i), "\t") + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
