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
package confbase

import (
    "context"
    "encoding/json"
    "errors"

    etcdclient "github.com/coreos/etcd/client"
    . "github.com/AgentElement/functional-supercollider/common"
)

type GlobalConfigWatcher struct {
    watcher etcdclient.Watcher
    ctxt context.Context
}

func (db *ColliderConfDB) NewGlobalConfigWatcher() *GlobalConfigWatcher {
    wopt := etcdclient.WatcherOptions{
        Recursive: false,
    }

    return &GlobalConfigWatcher{
        watcher: db.keysAPI.Watcher(ETCD_KEY_CONFIG_GLOBAL, &wopt),
        ctxt: context.Background(),
    }
}

/*
 * WatchChanges blocks until the global config key changes and
 * returns the new value. Deleting the key is reported as an
 * error, the caller decides whether to keep watching.
 */
func (watcher *GlobalConfigWatcher) WatchChanges() (error, *GlobalConfig) {
    res, err := watcher.watcher.Next(watcher.ctxt)
    if err != nil {
        ConfLogger.Errorf("global config watch error: %s\n",
            err.Error())
        return err, nil
    }

    switch res.Action {
        case "set", "create", "update", "compareAndSwap":
            config := &GlobalConfig{}
            err = json.Unmarshal([]byte(res.Node.Value), config)
            if err != nil {
                ConfLogger.Errorf("Can't unmarshal global config %s: %s\n",
                    res.Node.Key, err.Error())
                return err, nil
            }
            return nil, config
        case "delete", "expire":
            return errors.New("global config key removed"), nil
        default:
            return errors.New("Unknown action " + res.Action), nil
    }
}

/*
 * StartGlobalConfigWatcher spawns a goroutine that tracks the
 * global config on etcd and applies log level changes at
 * runtime. Watch errors back off to a fresh watcher.
 */
func (db *ColliderConfDB) StartGlobalConfigWatcher() {
    go func() {
        watcher := db.NewGlobalConfigWatcher()
        for {
            err, config := watcher.WatchChanges()
            if err != nil {
                watcher = db.NewGlobalConfigWatcher()
                continue
            }
            ConfLogger.Infof("Apply new global config, log level %d\n",
                config.LogLevel)
            LoggerSetLevel(config.LogLevel)
        }
    }()
}
