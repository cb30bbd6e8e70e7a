// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tomtom215/marquee/internal/recommend"
)

const idColumn = "movieId"

var catalogHeader = []string{idColumn, "title", "genres"}

// formatValue uses the shortest representation that parses back to v.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeMatrix encodes m as a labeled square table.
func writeMatrix(w io.Writer, m *recommend.Matrix) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	cw := csv.NewWriter(bw)

	ids := m.IDs()
	record := make([]string, len(ids)+1)

	record[0] = idColumn
	for i, id := range ids {
		record[i+1] = strconv.Itoa(id)
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write matrix header: %w", err)
	}

	for _, id := range ids {
		row, _ := m.Row(id)
		record[0] = strconv.Itoa(id)
		for j, v := range row {
			record[j+1] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write matrix row %d: %w", id, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush matrix: %w", err)
	}
	return bw.Flush()
}

// readMatrix decodes a table written by writeMatrix.
func readMatrix(r io.Reader) (*recommend.Matrix, error) {
	cr := csv.NewReader(bufio.NewReaderSize(r, 1<<16))
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("matrix file is empty")
		}
		return nil, fmt.Errorf("read matrix header: %w", err)
	}
	if len(header) < 2 || header[0] != idColumn {
		return nil, fmt.Errorf("matrix header must start with %q and list at least one id", idColumn)
	}

	n := len(header) - 1
	ids := make([]int, n)
	for i, field := range header[1:] {
		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("matrix header column %d: %w", i+1, err)
		}
		ids[i] = id
	}

	values := make([]float64, n*n)
	for i := 0; i < n; i++ {
		record, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("matrix has %d rows, want %d", i, n)
			}
			return nil, fmt.Errorf("read matrix row %d: %w", i, err)
		}

		rowID, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("matrix row %d id: %w", i, err)
		}
		if rowID != ids[i] {
			return nil, fmt.Errorf("matrix row %d has id %d, header says %d", i, rowID, ids[i])
		}

		for j, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("matrix row %d column %d: %w", ids[i], j+1, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("matrix row %d column %d is not finite", ids[i], j+1)
			}
			values[i*n+j] = v
		}
	}

	if _, err := cr.Read(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("matrix has more than %d rows", n)
	}

	m, err := recommend.NewMatrix(ids, values)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// writeCatalog encodes movies as movieId,title,genres.
func writeCatalog(w io.Writer, movies []recommend.Movie) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	if err := cw.Write(catalogHeader); err != nil {
		return fmt.Errorf("write catalog header: %w", err)
	}
	for i := range movies {
		m := &movies[i]
		if err := cw.Write([]string{strconv.Itoa(m.ID), m.Title, m.GenreString()}); err != nil {
			return fmt.Errorf("write catalog row %d: %w", m.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush catalog: %w", err)
	}
	return bw.Flush()
}

// readCatalog decodes a table written by writeCatalog.
func readCatalog(r io.Reader) ([]recommend.Movie, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = len(catalogHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog file is empty")
		}
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	for i, want := range catalogHeader {
		if header[i] != want {
			return nil, fmt.Errorf("catalog header column %d is %q, want %q", i, header[i], want)
		}
	}

	var movies []recommend.Movie
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("catalog line %d id: %w", line, err)
		}
		movies = append(movies, recommend.Movie{
			ID:     id,
			Title:  record[1],
			Genres: recommend.ParseGenres(record[2]),
		})
	}

	if len(movies) == 0 {
		return nil, errors.New("catalog has no movies")
	}
	return movies, nil
}
