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
    "time"

    etcdclient "github.com/coreos/etcd/client"
    . "github.com/AgentElement/functional-supercollider/common"
)

/*
 * ColliderConfDB persists the service configuration in an etcd
 * cluster so that every collider instance in cluster mode boots
 * from the same source of truth. All values are stored as JSON
 * documents under a fixed key layout, see layout.go.
 */
type ColliderConfDB struct {
    etcdClient etcdclient.Client
    keysAPI etcdclient.KeysAPI
}

func NewColliderConfDB(endpoints []string) *ColliderConfDB {
    cfg := etcdclient.Config{
        Endpoints: endpoints,
        Transport: etcdclient.DefaultTransport,
        HeaderTimeoutPerRequest: 3 * time.Second,
    }

    client, err := etcdclient.New(cfg)
    if err != nil {
        ConfLogger.Errorf("Fail to initialize etcd client: %s\n",
            err.Error())
        return nil
    }

    return &ColliderConfDB{
        etcdClient: client,
        keysAPI: etcdclient.NewKeysAPI(client),
    }
}

func (db *ColliderConfDB) GetSingleKey(key string) (error, []byte) {
    ctx := context.Background()
    sopt := etcdclient.GetOptions{
        Recursive: false,
        Sort: false,
        Quorum: true,
    }

    res, err := db.keysAPI.Get(ctx, key, &sopt)
    if err != nil {
        ConfLogger.Errorf("Can't get single key %s: %s\n",
            key, err.Error())
        return err, nil
    }

    return nil, []byte(res.Node.Value)
}

func (db *ColliderConfDB) SetSingleKey(key string, value string,
    ttl time.Duration) error {
    ctx := context.Background()
    sopt := etcdclient.SetOptions{
        Refresh: false,
        PrevExist: etcdclient.PrevIgnore,
        Dir: false,
        TTL: ttl,
    }

    _, err := db.keysAPI.Set(ctx, key, value, &sopt)
    if err != nil {
        ConfLogger.Errorf("Can't set single key %s: %s\n",
            key, err.Error())
        return err
    }

    return nil
}

func (db *ColliderConfDB) DeleteSingleKey(key string) error {
    ctx := context.Background()
    dopt := etcdclient.DeleteOptions{}
    _, err := db.keysAPI.Delete(ctx, key, &dopt)
    if err != nil {
        ConfLogger.Errorf("Can't delete single key %s: %s\n",
            key, err.Error())
        return err
    }

    return nil
}

func (db *ColliderConfDB) saveSection(key string, section interface{}) error {
    rawData, err := json.Marshal(section)
    if err != nil {
        ConfLogger.Errorf("Can't encode config for %s: %s\n",
            key, err.Error())
        return err
    }
    err = db.SetSingleKey(key, string(rawData), time.Duration(0))
    if err != nil {
        ConfLogger.Errorf("Can't save config %s: %s\n",
            key, err.Error())
        return err
    }
    return nil
}

func (db *ColliderConfDB) loadSection(key string, section interface{}) error {
    err, rawData := db.GetSingleKey(key)
    if err != nil {
        ConfLogger.Errorf("Can't get config %s\n", key)
        return err
    }
    err = json.Unmarshal(rawData, section)
    if err != nil {
        ConfLogger.Errorf("Can't decode config %s: %s\n",
            key, err.Error())
        return err
    }
    return nil
}

func (db *ColliderConfDB) SaveDBConfig(config *DBServiceConfig) error {
    return db.saveSection(ETCD_KEY_CONFIG_DB, config)
}

func (db *ColliderConfDB) LoadDBConfig(config *DBServiceConfig) error {
    return db.loadSection(ETCD_KEY_CONFIG_DB, config)
}

func (db *ColliderConfDB) SaveRestConfig(config *RestServerConfig) error {
    return db.saveSection(ETCD_KEY_CONFIG_REST, config)
}

func (db *ColliderConfDB) LoadRestConfig(config *RestServerConfig) error {
    return db.loadSection(ETCD_KEY_CONFIG_REST, config)
}

func (db *ColliderConfDB) SaveBackendConfig(config []BackendConfig) error {
    return db.saveSection(ETCD_KEY_CONFIG_BACKEND, config)
}

func (db *ColliderConfDB) LoadBackendConfig(config *[]BackendConfig) error {
    return db.loadSection(ETCD_KEY_CONFIG_BACKEND, config)
}

func (db *ColliderConfDB) SaveRunnerConfig(config *RunnerConfig) error {
    return db.saveSection(ETCD_KEY_CONFIG_RUNNER, config)
}

func (db *ColliderConfDB) LoadRunnerConfig(config *RunnerConfig) error {
    return db.loadSection(ETCD_KEY_CONFIG_RUNNER, config)
}

func (db *ColliderConfDB) SaveLoggerConfig(config *LoggerConfig) error {
    return db.saveSection(ETCD_KEY_CONFIG_LOGGER, config)
}

func (db *ColliderConfDB) LoadLoggerConfig(config *LoggerConfig) error {
    return db.loadSection(ETCD_KEY_CONFIG_LOGGER, config)
}

func (db *ColliderConfDB) SaveMailConfig(config *MailConfig) error {
    return db.saveSection(ETCD_KEY_CONFIG_MAIL, config)
}

func (db *ColliderConfDB) LoadMailConfig(config *MailConfig) error {
    return db.loadSection(ETCD_KEY_CONFIG_MAIL, config)
}

func (db *ColliderConfDB) SaveArchiveConfig(config *ArchiveConfig) error {
    return db.saveSection(ETCD_KEY_CONFIG_ARCHIVE, config)
}

func (db *ColliderConfDB) LoadArchiveConfig(config *ArchiveConfig) error {
    return db.loadSection(ETCD_KEY_CONFIG_ARCHIVE, config)
}

func (db *ColliderConfDB) SaveGlobalConfig(config *GlobalConfig) error {
    return db.saveSection(ETCD_KEY_CONFIG_GLOBAL, config)
}

func (db *ColliderConfDB) LoadGlobalConfig(config *GlobalConfig) error {
    return db.loadSection(ETCD_KEY_CONFIG_GLOBAL, config)
}

/*
 * SaveConfig uploads a full configuration, section by section.
 * Used once to seed a fresh etcd cluster from a config file.
 */
func (db *ColliderConfDB) SaveConfig(config *ColliderConfig) error {
    savers := []func() error {
        func() error { return db.SaveDBConfig(&config.DBConfig) },
        func() error { return db.SaveRestConfig(&config.RestConfig) },
        func() error { return db.SaveBackendConfig(config.BackendConfig) },
        func() error { return db.SaveRunnerConfig(&config.RunnerConfig) },
        func() error { return db.SaveLoggerConfig(&config.LoggerConfig) },
        func() error { return db.SaveMailConfig(&config.MailConfig) },
        func() error { return db.SaveArchiveConfig(&config.ArchiveConfig) },
    }
    for _, saver := range savers {
        if err := saver(); err != nil {
            return err
        }
    }
    ConfLogger.Infof("Successfully saved collider config to ETCD\n")
    return nil
}

func (db *ColliderConfDB) LoadConfig(config *ColliderConfig) error {
    loaders := []func() error {
        func() error { return db.LoadDBConfig(&config.DBConfig) },
        func() error { return db.LoadRestConfig(&config.RestConfig) },
        func() error { return db.LoadBackendConfig(&config.BackendConfig) },
        func() error { return db.LoadRunnerConfig(&config.RunnerConfig) },
        func() error { return db.LoadLoggerConfig(&config.LoggerConfig) },
        func() error { return db.LoadMailConfig(&config.MailConfig) },
        func() error { return db.LoadArchiveConfig(&config.ArchiveConfig) },
    }
    for _, loader := range loaders {
        if err := loader(); err != nil {
            return err
        }
    }
    return nil
}
