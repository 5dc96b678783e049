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

package common

import (
    "fmt"
    "os"

    "github.com/sirupsen/logrus"
    )

const (
    LOG_LEVEL_INFO int = 0
    LOG_LEVEL_DEBUG int = 1
    LOG_LEVEL_WARN int = 2
    LOG_LEVEL_ERROR int = 3
)

var globalLogger = logrus.New()
var logFile *os.File = nil

var Logger *logrus.Entry = nil
var RunnerLogger *logrus.Entry = nil
var BackendLogger *logrus.Entry = nil
var ServerLogger *logrus.Entry = nil
var DBLogger *logrus.Entry = nil
var ConfLogger *logrus.Entry = nil
var StorageLogger *logrus.Entry = nil

func init() {
    buildModuleLoggers()
}

func buildModuleLoggers() {
    Logger = globalLogger.WithFields(logrus.Fields{
            "Module": "Collider",
            })
    RunnerLogger = globalLogger.WithFields(logrus.Fields{
            "Module": "BatchRunner",
            })
    BackendLogger = globalLogger.WithFields(logrus.Fields{
            "Module": "ScheduleBackend",
            })
    ServerLogger = globalLogger.WithFields(logrus.Fields{
            "Module": "RestServer",
            })
    DBLogger = globalLogger.WithFields(logrus.Fields{
            "Module": "Database",
            })
    ConfLogger = globalLogger.WithFields(logrus.Fields{
            "Module": "ConfDB",
            })
    StorageLogger = globalLogger.WithFields(logrus.Fields{
            "Module": "Storage",
            })
}

func LoggerSetLevel(level int) {
    switch level {
        case LOG_LEVEL_DEBUG:
            globalLogger.SetLevel(logrus.DebugLevel)
        case LOG_LEVEL_INFO:
            globalLogger.SetLevel(logrus.InfoLevel)
        case LOG_LEVEL_WARN:
            globalLogger.SetLevel(logrus.WarnLevel)
        case LOG_LEVEL_ERROR:
            globalLogger.SetLevel(logrus.ErrorLevel)
        default:
            fmt.Printf("Unknown log level %d\n",
                level)
    }
}

func LoggerInit(config *LoggerConfig) error {
    globalLogger.SetFormatter(&logrus.JSONFormatter{})
    var err error = nil
    if logFile == nil && config.Logfile != "" {
        logFile, err = os.OpenFile(config.Logfile,
            os.O_RDWR | os.O_CREATE | os.O_APPEND, 0777)
        if err != nil {
            /*use the log file in current directory*/
            logFile, err = os.OpenFile("./collider.log",
                os.O_RDWR | os.O_CREATE | os.O_APPEND, 0777)
        }
    }

    if err == nil && logFile != nil {
        globalLogger.Out = logFile
    }

    LoggerSetLevel(config.LogLevel)
    buildModuleLoggers()

    return nil
}
