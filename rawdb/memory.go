package rawdb

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/iotanames/inresolver/schema"
)

const MemoryType = "memory"

// MemoryDB is a process-lifetime store; it plays the role of a browsing
// session scoped area and is gone after restart.
type MemoryDB struct {
	buckets map[string]map[string][]byte
	lock    sync.RWMutex
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		buckets: map[string]map[string][]byte{
			schema.SettingsBucket: {},
			schema.TabStateBucket: {},
		},
	}
}

func (m *MemoryDB) Type() string {
	return MemoryType
}

func (m *MemoryDB) Put(bucket, key string, value interface{}) error {
	by, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unknown data type: %s, db: memory db", reflect.TypeOf(value))
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	bkt, ok := m.buckets[bucket]
	if !ok {
		return schema.ErrNotExist
	}
	bkt[key] = append([]byte(nil), by...)
	return nil
}

func (m *MemoryDB) Get(bucket, key string) ([]byte, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	val, ok := m.buckets[bucket][key]
	if !ok {
		return nil, schema.ErrNotExist
	}
	return append([]byte(nil), val...), nil
}

func (m *MemoryDB) GetAllKey(bucket string) ([]string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	bkt, ok := m.buckets[bucket]
	if !ok {
		return nil, schema.ErrNotExist
	}
	keys := make([]string, 0, len(bkt))
	for k := range bkt {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *MemoryDB) Delete(bucket, key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	bkt, ok := m.buckets[bucket]
	if !ok {
		return schema.ErrNotExist
	}
	delete(bkt, key)
	return nil
}

func (m *MemoryDB) Exist(bucket, key string) bool {
	_, err := m.Get(bucket, key)
	return err == nil
}

func (m *MemoryDB) Close() error {
	return nil
}
