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

package storage

import (
    "errors"
    "os"
    "path"
    "sync"

    "github.com/colinmarc/hdfs/v2"
    . "github.com/AgentElement/functional-supercollider/common"
)

/*
 * OutputArchiver copies stdout/stderr logs of finished jobs to a
 * shared HDFS location, so that cluster nodes can reclaim local
 * scratch space afterwards. The archiver is optional: when not
 * configured the manager skips archiving entirely.
 */
type OutputArchiver struct {
    lock sync.Mutex
    namenode string
    remoteDir string
    client *hdfs.Client
}

var globalArchiver *OutputArchiver = nil

func GetOutputArchiver() *OutputArchiver {
    return globalArchiver
}

func NewOutputArchiver(config *ArchiveConfig) *OutputArchiver {
    if config == nil || !config.Enabled {
        return nil
    }
    archiver := &OutputArchiver{
        namenode: config.NameNode,
        remoteDir: config.RemoteDir,
    }
    globalArchiver = archiver
    return archiver
}

/*
 * The namenode connection may drop, so don't hold on to a broken
 * client. A failed operation invalidates the cached connection and
 * the next call reconnects.
 */
func (archiver *OutputArchiver) getClient() (error, *hdfs.Client) {
    archiver.lock.Lock()
    defer archiver.lock.Unlock()

    if archiver.client != nil {
        return nil, archiver.client
    }

    namenode := archiver.namenode
    if namenode == "" {
        namenode = os.Getenv("HADOOP_NAMENODE")
    }
    if namenode == "" && os.Getenv("HADOOP_CONF_DIR") == "" {
        return errors.New("no namenode configured, set NameNode or HADOOP_NAMENODE"),
            nil
    }

    client, err := hdfs.New(namenode)
    if err != nil {
        StorageLogger.Errorf("Fail to connect namenode %s: %s\n",
            namenode, err.Error())
        return err, nil
    }

    archiver.client = client
    return nil, client
}

func (archiver *OutputArchiver) invalidateClient() {
    archiver.lock.Lock()
    if archiver.client != nil {
        archiver.client.Close()
        archiver.client = nil
    }
    archiver.lock.Unlock()
}

/*
 * ArchiveJobOutput uploads the given local files under
 * <remoteDir>/<jobId>/. Files that don't exist locally are
 * skipped, not treated as errors: a batch whose streams were
 * merged only produces one file.
 */
func (archiver *OutputArchiver) ArchiveJobOutput(jobId string,
    localFiles []string) error {
    err, client := archiver.getClient()
    if err != nil {
        return err
    }

    jobDir := path.Join(archiver.remoteDir, jobId)
    err = client.MkdirAll(jobDir, 0755)
    if err != nil {
        archiver.invalidateClient()
        return err
    }

    for _, localFile := range localFiles {
        if localFile == "" || !FSUtilsFileExist(localFile) {
            continue
        }
        remoteFile := path.Join(jobDir, path.Base(localFile))

        /*CopyToRemote refuses to overwrite, clear stale uploads*/
        client.Remove(remoteFile)
        err = client.CopyToRemote(localFile, remoteFile)
        if err != nil {
            StorageLogger.Errorf("Fail to archive %s to %s: %s\n",
                localFile, remoteFile, err.Error())
            archiver.invalidateClient()
            return err
        }
        StorageLogger.Infof("Archived %s to %s\n",
            localFile, remoteFile)
    }

    return nil
}
