// Package sqldb is the low-level MySQL access module: it only builds and
// executes CREATE TABLE / INSERT statements from table metadata.
package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// DBer is the storage-facing database interface.
type DBer interface {
	CreateTable(t TableMetaData) error
	Insert(t TableMetaData) error
}

type Sqldb struct {
	options
	db *sql.DB
}

func New(opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	d := &Sqldb{}
	d.options = options
	if err := d.OpenDB(); err != nil {
		return nil, err
	}
	return d, nil
}

// OpenDB connects using the configured DSN.
func (d *Sqldb) OpenDB() error {
	db, err := sql.Open("mysql", d.sqlURL)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(d.maxOpenConns)
	db.SetMaxIdleConns(d.maxOpenConns)
	if err = db.Ping(); err != nil {
		return err
	}
	d.db = db
	return nil
}

type Field struct {
	Title string
	Type  string
}

type TableMetaData struct {
	TableName   string
	ColumnNames []Field
	Args        []interface{} // row values, len = len(ColumnNames) * DataCount
	DataCount   int
	AutoKey     bool
}

func (d *Sqldb) CreateTable(t TableMetaData) error {
	if len(t.ColumnNames) == 0 {
		return errors.New("column can not be empty")
	}

	sql := `CREATE TABLE IF NOT EXISTS ` + t.TableName + " ("
	if t.AutoKey {
		sql += `id BIGINT NOT NULL PRIMARY KEY AUTO_INCREMENT,`
	}
	for _, t := range t.ColumnNames {
		sql += t.Title + ` ` + t.Type + `,`
	}
	sql = sql[:len(sql)-1] + `) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	d.logger.Debug("create table", zap.String("sql", sql))

	_, err := d.db.Exec(sql)
	return err
}

func (d *Sqldb) Insert(t TableMetaData) error {
	if len(t.ColumnNames) == 0 {
		return errors.New("empty columns")
	}

	sql := `INSERT IGNORE INTO ` + t.TableName + `(`
	for _, v := range t.ColumnNames {
		sql += v.Title + ","
	}
	sql = sql[:len(sql)-1] + `) VALUES `
	blank := ",(" + strings.Repeat(",?", len(t.ColumnNames))[1:] + ")"
	sql += strings.Repeat(blank, t.DataCount)[1:] + `;`

	d.logger.Debug("insert table", zap.String("sql", sql))

	_, err := d.db.Exec(sql, t.Args...)
	return err
}
