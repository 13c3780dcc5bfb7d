package arena

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// GameRecord is one finished game as stored in the parquet game file.
type GameRecord struct {
	MatchID string `parquet:"name=match_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Task    int32  `parquet:"name=task, type=INT32"`
	Game    int32  `parquet:"name=game, type=INT32"`
	White   string `parquet:"name=white, type=BYTE_ARRAY, convertedtype=UTF8"`
	Black   string `parquet:"name=black, type=BYTE_ARRAY, convertedtype=UTF8"`
	Result  string `parquet:"name=result, type=BYTE_ARRAY, convertedtype=UTF8"`
	Method  string `parquet:"name=method, type=BYTE_ARRAY, convertedtype=UTF8"`
	Plies   int32  `parquet:"name=plies, type=INT32"`
	Moves   string `parquet:"name=moves, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// NewGameRecord converts a finished game into a record. white and black are
// the display names of the engines that had those colours.
func NewGameRecord(matchID string, task, game int, white, black string, out GameOutcome) GameRecord {
	result := "1/2-1/2"
	switch out.Winner {
	case White:
		result = "1-0"
	case Black:
		result = "0-1"
	}
	return GameRecord{
		MatchID: matchID,
		Task:    int32(task),
		Game:    int32(game),
		White:   white,
		Black:   black,
		Result:  result,
		Method:  out.Method,
		Plies:   int32(len(out.Moves)),
		Moves:   strings.Join(out.Moves, " "),
	}
}

// ParquetSchema lists the columns a GameRecord file must have.
type ParquetSchema struct {
	Name   string         `json:"name"`
	Fields []ParquetField `json:"fields"`
}

type ParquetField struct {
	Name     string      `json:"name"`
	Type     interface{} `json:"type"`
	Nullable bool        `json:"nullable"`
}

//go:embed schema/game_record.json
var gameRecordSchema []byte

// WriteParquet drains records into a snappy-compressed parquet file until the
// channel is closed.
func WriteParquet(path string, records <-chan GameRecord, parallel int64) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(GameRecord), parallel)
	if err != nil {
		return err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for record := range records {
		if err := parquetWriter.Write(record); err != nil {
			return err
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return err
	}
	return fileWriter.Close()
}

// ReadParquet loads every record of a game file.
func ReadParquet(path string, parallel int64) ([]GameRecord, error) {
	absPath := path
	if !filepath.IsAbs(path) {
		if resolved, err := filepath.Abs(path); err == nil {
			absPath = resolved
		}
	}
	if err := checkFileColumns(absPath); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	fileReader, err := local.NewLocalFileReader(absPath)
	if err != nil {
		return nil, err
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(GameRecord), parallel)
	if err != nil {
		return nil, err
	}
	defer parquetReader.ReadStop()

	num := int(parquetReader.GetNumRows())
	records := make([]GameRecord, 0, num)
	batchSize := 1024
	for offset := 0; offset < num; offset += batchSize {
		remain := num - offset
		if remain < batchSize {
			batchSize = remain
		}
		batch := make([]GameRecord, batchSize)
		if err := parquetReader.Read(&batch); err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}

func loadParquetSchema(data []byte) (ParquetSchema, error) {
	var schema ParquetSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return ParquetSchema{}, fmt.Errorf("parquet schema: %w", err)
	}
	return schema, nil
}

// checkFileColumns opens the file with the schema stored in its footer and
// checks its columns. A reader built from GameRecord would rename the footer
// to the struct's fields and hide missing columns.
func checkFileColumns(path string) error {
	fileReader, err := local.NewLocalFileReader(path)
	if err != nil {
		return err
	}
	defer fileReader.Close()

	footerReader, err := reader.NewParquetReader(fileReader, nil, 1)
	if err != nil {
		return err
	}
	defer footerReader.ReadStop()
	return checkColumns(footerReader.Footer.Schema)
}

// checkColumns rejects files that lack a game-record column, such as files
// written by other tools or by an older record layout. The first element is
// the schema root.
func checkColumns(elements []*parquet.SchemaElement) error {
	schema, err := loadParquetSchema(gameRecordSchema)
	if err != nil {
		return err
	}
	columns := make(map[string]bool, len(elements))
	for _, e := range elements[min(1, len(elements)):] {
		columns[strings.ToLower(e.GetName())] = true
	}
	var missing []string
	for _, field := range schema.Fields {
		if !columns[field.Name] {
			missing = append(missing, field.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("not a %s file: missing columns %s", schema.Name, strings.Join(missing, ", "))
	}
	return nil
}
