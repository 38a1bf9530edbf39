// Package hdf5 saves simulation trajectories to HDF5 files.
package hdf5

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"gonum.org/v1/hdf5"
)

// A Dataset stipulates how to generate data and where to store them in
// the HDF5 file. The file-side dataset has one leading dimension of
// size Steps prepended to Dims; Data is called once per step and must
// return a pointer to a slice of row-major concrete values.
type Dataset struct {
	// Name is the name of the dataset in the HDF5 file.
	Name string

	// Val is a value of the same concrete type as the underlying type
	// of the data.
	Val interface{}

	// Dims are the dimensions of the data for a single step.
	Dims []int

	// Data produces the data for step k.
	Data func(k int) interface{}

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// Config holds the parameters of the HDF5 driver.
type Config struct {
	Output   string      // path of output file
	Steps    int         // total number of steps
	Attrs    interface{} // optional struct whose fields become attributes of the config dataset
	Datasets []*Dataset  // list of datasets
}

// Save writes all datasets to an HDF5 file, one step at a time.
func Save(conf *Config) (err error) {
	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer checkClose(&err, file)

	if err := saveConfig(file, conf); err != nil {
		return err
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf); err != nil {
			return err
		}
		defer checkClose(&err, d)
	}

	for k := 0; k < conf.Steps; k++ {
		// show progress as percentage
		fmt.Printf("\r% 3d%%", 100*k/conf.Steps)

		for _, d := range conf.Datasets {
			start := make([]uint, len(d.Dims)+1)
			start[0] = uint(k)
			if err := d.fspace.SetOffset(start); err != nil {
				return err
			}
			if err := d.dset.WriteSubset(d.Data(k), d.mspace, d.fspace); err != nil {
				return err
			}
		}
	}
	fmt.Printf("\r100%%\n")
	return nil
}

// saveConfig creates a "config" dataset with a null dataspace whose
// attributes reflect the fields of conf.Attrs plus a timestamp.
func saveConfig(file *hdf5.File, conf *Config) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}

	now := time.Now().String()
	if err := saveAttr(dset, scalar, "Time", &now); err != nil {
		return err
	}

	if conf.Attrs == nil {
		return nil
	}
	v := reflect.ValueOf(conf.Attrs)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		// booleans have no native HDF5 mapping
		if f.Kind() == reflect.Bool {
			b := 0
			if f.Bool() {
				b = 1
			}
			f = reflect.ValueOf(&b).Elem()
		}
		p := reflect.New(f.Type())
		p.Elem().Set(f)
		if err := saveAttr(dset, scalar, v.Type().Field(i).Name, p.Interface()); err != nil {
			return err
		}
	}
	return nil
}

// saveAttr writes one scalar attribute. val must be a pointer.
func saveAttr(dset *hdf5.Dataset, scalar *hdf5.Dataspace, name string, val interface{}) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(reflect.ValueOf(val).Elem().Interface())
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	attr, err := dset.CreateAttribute(name, dtype, scalar)
	if err != nil {
		return err
	}
	defer checkClose(&err, attr)

	return attr.Write(val, dtype)
}

// init creates the dataset with one leading step dimension and selects
// a single-step hyperslab for the subsequent subset writes.
func (d *Dataset) init(file *hdf5.File, conf *Config) error {
	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	udims := make([]uint, len(d.Dims)+1)
	udims[0] = uint(conf.Steps)
	for i, n := range d.Dims {
		udims[i+1] = uint(n)
	}

	d.fspace, err = hdf5.CreateSimpleDataspace(udims, nil)
	if err != nil {
		return err
	}

	start := make([]uint, len(udims))
	count := make([]uint, len(udims))
	copy(count, udims)
	count[0] = 1

	if err := d.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	if len(d.Dims) == 0 {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	} else {
		d.mspace, err = hdf5.CreateSimpleDataspace(udims[1:], nil)
	}
	if err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace)
	if err != nil {
		checkClose(&err, d.fspace)
		checkClose(&err, d.mspace)
	}

	return err
}

// Close closes the HDF5 dataset and dataspaces.
func (d *Dataset) Close() error {
	if err := d.dset.Close(); err != nil {
		return err
	}
	if err := d.mspace.Close(); err != nil {
		return err
	}
	return d.fspace.Close()
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
