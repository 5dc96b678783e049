/*
 Copyright (c) 2024-2025 The functional-supercollider authors
 All rights reserved.

 Redistribution and use in source and binary forms, with or without
 modification, are permitted provided that the following conditions
 are met:
  1. Redistributions of source code must retain the above copyright
     notice, this list of conditions and the following disclaimer.
  2. Redistributions in binary form must reproduce the above copyright
     notice, this list of conditions and the following disclaimer in the
     documentation and/or other materials provided with the distribution.

  THIS SOFTWARE IS PROVIDED BY THE AUTHOR AND CONTRIBUTORS ``AS IS'' AND
  ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
  IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
  ARE DISCLAIMED.  IN NO EVENT SHALL THE AUTHOR OR CONTRIBUTORS BE LIABLE
  FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
  DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS
  OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
  HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT
  LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY
  OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF
  SUCH DAMAGE.
*/

package dbservice

import (
    "database/sql"
    _"github.com/lib/pq"
    "fmt"
    "regexp"
    "time"
    "sync/atomic"
)

import (
    . "github.com/AgentElement/functional-supercollider/common"
)

type dbStat struct {
    lastErr error
    lastErrTime time.Time
    lastErrType string
    queryErr int64
    execErr int64
}

type dbService struct {
    server string
    port string
    user string
    pass string
    dbname string
    driver string
    db *sql.DB
    stat *dbStat
}

func GetDBService() *dbService {
    return globalDBService
}

var globalDBService *dbService = nil

var dbReconnectPeriod = time.Second * 5
var dbReconnectCount = 3

var connErrPattern = regexp.MustCompile("connection?")

func isConnectionError(err error) bool {
    return connErrPattern.FindStringIndex(err.Error()) != nil
}

func NewDBService(config *DBServiceConfig) *dbService {
    stat := &dbStat {
        queryErr: 0,
        execErr: 0,
    }

    dbService := &dbService{
        server: config.Server,
        port: config.Port,
        user: config.User,
        pass: config.Password,
        dbname: config.DBName,
        driver: config.Driver,
        stat: stat,
    }

    dbOpts := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable",
        dbService.user, dbService.pass, dbService.dbname)

    if dbService.server != "" {
        dbOpts += " host=" + dbService.server
    }
    if dbService.port != "" {
        dbOpts += " port=" + dbService.port
    }
    db, err := sql.Open(dbService.driver, dbOpts)
    if err != nil {
        DBLogger.Errorf("Fail to open database, error %s \n", err.Error())
        return nil
    }
    dbService.db = db

    /*
     * DB service blocking retry dbReconnectCount * dbReconnectPeriod
     * until connect successfully or give up.
     */
    connected := false
    for i := 0; i <= dbReconnectCount; i++ {
        err = db.Ping()
        if err != nil {
            DBLogger.Errorf("database connection failed, retry...")
            time.Sleep(dbReconnectPeriod)
        } else {
            DBLogger.Infof("database connection successfully! \n")
            connected = true
            break
        }
    }

    if connected == false {
        DBLogger.Infof("give up to connect database, move on...! \n")
    }

    globalDBService = dbService

    return dbService
}

/*history record for one submitted batch*/
type BatchDBInfo struct {
    JobId string
    Name string
    Backend string
    WorkDir string
    State string
    Created string
    Finished string
    ExperimentCount int
}

/*history record for one experiment invocation within a batch*/
type ExperimentDBInfo struct {
    JobId string
    Seq int
    Name string
    State string
    ExitCode int
    DurationSeconds float64
}

func (db *dbService) ExecErr(err error) {
    db.stat.lastErrTime = time.Now()
    db.stat.lastErrType = "Exec"
    db.stat.lastErr = err
    atomic.AddInt64(&db.stat.execErr, 1)
}

func (db *dbService) QueryErr(err error) {
    db.stat.lastErrTime = time.Now()
    db.stat.lastErrType = "Query"
    db.stat.lastErr = err
    atomic.AddInt64(&db.stat.queryErr, 1)
}

func (db *dbService) Query(query string, args ...interface{}) (*sql.Rows, error) {
    var err error
    var rows *sql.Rows
    for i := 0; i <= dbReconnectCount; i++ {
        rows, err = db.db.Query(query, args ...)
        if err != nil {
            db.QueryErr(err)
            if isConnectionError(err) != true {
                return nil, err
            } else {
                DBLogger.Errorf("database connection failed, retry...")
                time.Sleep(dbReconnectPeriod)
            }
        } else {
            break
        }
    }
    return rows, err
}

func (db *dbService) Exec(sqlStr string, args ...interface{}) error {
    stmt, err := db.db.Prepare(sqlStr)
    if err != nil {
        DBLogger.Errorf("DBService: prepare error %s\n", err.Error())
        return err
    }

    defer stmt.Close()

    for i := 0; i <= dbReconnectCount; i++ {
        _, err = stmt.Exec(args ...)
        if err != nil {
            db.ExecErr(err)
            if isConnectionError(err) != true {
                break
            } else {
                DBLogger.Errorf("database connection failed, retry...")
                time.Sleep(dbReconnectPeriod)
            }
        } else {
            break
        }
    }
    return err
}

func (db *dbService) CreateTables() error {
    batchSql := "CREATE TABLE IF NOT EXISTS BatchInfo(jobid text PRIMARY KEY,"
    batchSql += "name text, backend text, workdir text, state text,"
    batchSql += "created text, finished text, experimentcount integer)"
    if err := db.Exec(batchSql); err != nil {
        return err
    }

    expSql := "CREATE TABLE IF NOT EXISTS ExperimentInfo(jobid text, seq integer,"
    expSql += "name text, state text, exitcode integer, duration double precision,"
    expSql += "PRIMARY KEY (jobid, seq))"
    return db.Exec(expSql)
}

func (db *dbService) AddBatch(batchInfo *BatchDBInfo) error {
    insertSql := "INSERT INTO BatchInfo(jobid,name,backend,workdir,state,"
    insertSql += "created,finished,experimentcount) "
    insertSql += "VALUES($1,$2,$3,$4,$5,$6,$7,$8)"

    err := db.Exec(insertSql, batchInfo.JobId, batchInfo.Name,
        batchInfo.Backend, batchInfo.WorkDir, batchInfo.State,
        batchInfo.Created, batchInfo.Finished, batchInfo.ExperimentCount)

    if err != nil {
        DBLogger.Errorf("Fail to add batch id %s name %s to database\n",
            batchInfo.JobId, batchInfo.Name)
    } else {
        DBLogger.Infof("Succeed to add batch id %s name %s to database\n",
            batchInfo.JobId, batchInfo.Name)
    }

    return err
}

func (db *dbService) UpdateBatchState(jobId string, state string,
    finished string) error {
    updateSql := "UPDATE BatchInfo SET state = $1, finished = $2 WHERE jobid = $3"
    return db.Exec(updateSql, state, finished, jobId)
}

func (db *dbService) AddExperiment(expInfo *ExperimentDBInfo) error {
    insertSql := "INSERT INTO ExperimentInfo(jobid,seq,name,state,exitcode,duration) "
    insertSql += "VALUES($1,$2,$3,$4,$5,$6)"

    err := db.Exec(insertSql, expInfo.JobId, expInfo.Seq, expInfo.Name,
        expInfo.State, expInfo.ExitCode, expInfo.DurationSeconds)
    if err != nil {
        DBLogger.Errorf("Fail to add experiment %s of batch %s to database\n",
            expInfo.Name, expInfo.JobId)
    }
    return err
}

func (db *dbService) GetBatchById(jobId string) (error, *BatchDBInfo) {
    querySql := "SELECT jobid,name,backend,workdir,state,created,finished,"
    querySql += "experimentcount FROM BatchInfo WHERE jobid = $1"

    rows, err := db.Query(querySql, jobId)
    if err != nil {
        DBLogger.Errorf("Fail to query batch %s: %s\n",
            jobId, err.Error())
        return err, nil
    }
    defer rows.Close()

    if !rows.Next() {
        return nil, nil
    }

    batchInfo := &BatchDBInfo{}
    err = rows.Scan(&batchInfo.JobId, &batchInfo.Name, &batchInfo.Backend,
        &batchInfo.WorkDir, &batchInfo.State, &batchInfo.Created,
        &batchInfo.Finished, &batchInfo.ExperimentCount)
    if err != nil {
        return err, nil
    }

    return nil, batchInfo
}

func (db *dbService) GetBatchHistory(count int) (error, []BatchDBInfo) {
    querySql := "SELECT jobid,name,backend,workdir,state,created,finished,"
    querySql += "experimentcount FROM BatchInfo ORDER BY created DESC"
    if count > 0 {
        querySql += fmt.Sprintf(" LIMIT %d", count)
    }

    rows, err := db.Query(querySql)
    if err != nil {
        DBLogger.Errorf("Fail to query batch history: %s\n",
            err.Error())
        return err, nil
    }
    defer rows.Close()

    batches := make([]BatchDBInfo, 0)
    for rows.Next() {
        batchInfo := BatchDBInfo{}
        err = rows.Scan(&batchInfo.JobId, &batchInfo.Name, &batchInfo.Backend,
            &batchInfo.WorkDir, &batchInfo.State, &batchInfo.Created,
            &batchInfo.Finished, &batchInfo.ExperimentCount)
        if err != nil {
            return err, nil
        }
        batches = append(batches, batchInfo)
    }

    return nil, batches
}

func (db *dbService) GetExperimentsByBatch(jobId string) (error, []ExperimentDBInfo) {
    querySql := "SELECT jobid,seq,name,state,exitcode,duration "
    querySql += "FROM ExperimentInfo WHERE jobid = $1 ORDER BY seq"

    rows, err := db.Query(querySql, jobId)
    if err != nil {
        DBLogger.Errorf("Fail to query experiments of batch %s: %s\n",
            jobId, err.Error())
        return err, nil
    }
    defer rows.Close()

    experiments := make([]ExperimentDBInfo, 0)
    for rows.Next() {
        expInfo := ExperimentDBInfo{}
        err = rows.Scan(&expInfo.JobId, &expInfo.Seq, &expInfo.Name,
            &expInfo.State, &expInfo.ExitCode, &expInfo.DurationSeconds)
        if err != nil {
            return err, nil
        }
        experiments = append(experiments, expInfo)
    }

    return nil, experiments
}
