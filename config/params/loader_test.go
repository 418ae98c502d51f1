package params_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prysmaticlabs/chaindata/config/params"
	"github.com/prysmaticlabs/chaindata/testing/assert"
	"github.com/prysmaticlabs/chaindata/testing/require"
)

func TestLoadChainConfigFile_MinimalPreset(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`PRESET_BASE: 'minimal'
CONFIG_NAME: 'local'
SECONDS_PER_SLOT: 2
TARGET_AGGREGATORS_PER_COMMITTEE: 4
GENESIS_FORK_VERSION: 0x01020304
DOMAIN_SELECTION_PROOF: 0x07000000
`)
	require.NoError(t, os.WriteFile(file, content, 0600))
	require.NoError(t, params.LoadChainConfigFile(file))

	cfg := params.BeaconConfig()
	assert.Equal(t, "local", cfg.ConfigName)
	assert.Equal(t, uint64(2), cfg.SecondsPerSlot)
	assert.Equal(t, uint64(4), cfg.TargetAggregatorsPerCommittee)
	assert.Equal(t, params.MinimalSpecConfig().SlotsPerEpoch, cfg.SlotsPerEpoch)
	assert.DeepEqual(t, []byte{1, 2, 3, 4}, cfg.GenesisForkVersion)
	assert.Equal(t, [4]byte{7, 0, 0, 0}, cfg.DomainSelectionProof)
	assert.Equal(t, 2*time.Second, cfg.SlotDuration())
}

func TestLoadChainConfigFile_DefaultsToDevnetName(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	conf, err := params.UnmarshalConfig([]byte("SLOTS_PER_EPOCH: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, "devnet", conf.ConfigName)
	assert.Equal(t, params.MainnetConfig().SecondsPerSlot, conf.SecondsPerSlot)
}

func TestLoadChainConfigFile_MissingFile(t *testing.T) {
	err := params.LoadChainConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, "failed to read chain config file", err)
}

func TestSetupTestConfigCleanup_Restores(t *testing.T) {
	prev := params.BeaconConfig().SlotsPerEpoch
	t.Run("override", func(t *testing.T) {
		params.SetupTestConfigCleanup(t)
		cfg := params.BeaconConfig().Copy()
		cfg.SlotsPerEpoch = prev + 1
		params.OverrideBeaconConfig(cfg)
		assert.Equal(t, prev+1, params.BeaconConfig().SlotsPerEpoch)
	})
	assert.Equal(t, prev, params.BeaconConfig().SlotsPerEpoch)
}

func TestCopy_IsDeep(t *testing.T) {
	cfg := params.MainnetConfig().Copy()
	cfg.GenesisForkVersion[0] = 0xff
	assert.Equal(t, byte(0), params.MainnetConfig().GenesisForkVersion[0])
}
